package main

import (
	"strings"

	"github.com/nicolagi/height"
)

type listsByName []height.List

func (lists listsByName) Len() int {
	return len(lists)
}

func (lists listsByName) Swap(i, j int) {
	lists[i], lists[j] = lists[j], lists[i]
}

func (lists listsByName) Less(i, j int) bool {
	return strings.ToLower(lists[i].Name) < strings.ToLower(lists[j].Name)
}

// tasksByIndex sorts tasks by their number, i.e., by creation order.
type tasksByIndex []height.Task

func (tasks tasksByIndex) Len() int {
	return len(tasks)
}

func (tasks tasksByIndex) Swap(i, j int) {
	tasks[i], tasks[j] = tasks[j], tasks[i]
}

func (tasks tasksByIndex) Less(i, j int) bool {
	return tasks[i].Index < tasks[j].Index
}

type activitiesByCreated []height.Activity

func (activities activitiesByCreated) Len() int {
	return len(activities)
}

func (activities activitiesByCreated) Swap(i, j int) {
	activities[i], activities[j] = activities[j], activities[i]
}

func (activities activitiesByCreated) Less(i, j int) bool {
	return activities[i].Created().Before(activities[j].Created())
}

// The height program is a terminal interface to Height (https://height.app): browse lists, tasks, and task
// activities, and export them to JSON files.
//
// The API token is read from the HEIGHT_API_TOKEN environment variable, the token key of a .height.yaml config
// file, or the --token flag. Export files go to the exports directory unless configured otherwise.
//
// Run without arguments, or with the browse command, it shows a main menu. Every menu and every list of lists,
// tasks, or activities is an incremental search: type to filter, use the arrow keys to move, press Enter to pick.
// Ctrl+C quits at any point.
//
// The lists, tasks, export, exports, and show commands do the same without interaction, e.g.:
//
//	height export list Roadmap
//	height tasks Roadmap --search '@inProgress:-+completed'
//	height show tasks/fix-login_T-3_2024-01-02.json
package main // import "github.com/nicolagi/height/cmd/height"

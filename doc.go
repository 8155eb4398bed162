// The height package contains a read-only client for a subset of the Height REST API documented at
// https://height.app/api. The client is extended to support more functionality as required by consumers; at the
// time of writing the only consumer is the terminal browser and exporter in the cmd/height subdirectory.
//
// All methods that make remote calls take a context and return the decoded contents of the "list" envelope that
// the API wraps collections in. Nothing is cached: callers that need to look at the same collection twice, e.g.,
// to filter tasks locally with SearchTasks, should hold on to the returned slices.
//
// Fetching activities for many tasks at once is rate limited upstream. Use the batch package for that rather than
// calling Activities in a tight loop.
package height // import "github.com/nicolagi/height"

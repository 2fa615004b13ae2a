// Package templates holds the HTML components served by the web package.
// Components are written in .templ files; run `templ generate` after editing.
package templates

// StatusData is what the status page shows about the CSV source.
type StatusData struct {
	SourcePath string
	RowCount   int
	Regions    int
	Countries  int
	ItemTypes  int
	LoadError  string // set when the source could not be loaded
}

// apiRoutes are listed on the status page.
var apiRoutes = []string{"GET /api/papers", "GET /api/filters", "POST /api/export"}

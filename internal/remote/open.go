package remote

import "github.com/skratchdot/open-golang/open"

// openBrowser is a thin seam over open-golang so tests can stub it
// without shelling out for real.
var openBrowser = open.Run

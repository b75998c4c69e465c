package sim

// RouteAll exposes routeAll to the external tests.
var RouteAll = routeAll

// Package sim runs the routing comparison.
//
// A Runner clones the loaded network once per router, applies the same
// offline and saturation perturbations to every clone with fixed seeds, and
// builds the landmark embedding on its clone. It then samples payments:
// distinct source and destination drawn from the sorted node list, an amount
// in [MinPayment, MaxPayment], resampled until neither endpoint lies outside
// the largest strongly connected component and every clone still has a real
// path for the amount. Each payment is routed on all routers concurrently;
// routers own their clones, so nothing mutable is shared between goroutines.
package sim

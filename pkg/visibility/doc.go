// Package visibility reports whether a rendering region intersects the
// viewport, for one-time entrance transitions.
//
// The host environment grants the capability through an Observer. A Detector
// owns at most one subscription at a time and releases it on Unmount or when
// its Options change. Hosts without viewport observation pass a nil Observer
// (or return ErrUnsupported) and every region is treated as visible.
//
//	hub := visibility.NewHub()
//	d := visibility.New(hub, visibility.Options{Threshold: 0.1})
//	d.Mount("pro-teacher")
//	defer d.Unmount()
//
//	hub.Report("pro-teacher", true)
//	d.Visible() // true
package visibility

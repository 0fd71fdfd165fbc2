// Package model implements the device property model.
//
// # Hierarchy
//
// A Device owns a tree of property groups:
//
//	Device (gpu0)
//	└── Group (root)
//	    └── pwrscale
//	        ├── policy           (RW)
//	        ├── avail_policies   (R)
//	        └── <policy>         (per-policy group, present while attached)
//	            └── ...
//
// Groups contain Attributes and other Groups. Names are single path
// elements; attributes are addressed by slash separated paths relative to
// a group, e.g. "pwrscale/policy".
//
// # Attributes
//
// An attribute does not store its value. It carries a ShowFunc that renders
// the current value and a StoreFunc that applies a written one, so the
// owner of the state decides how reads and writes are synchronized.
// Attributes without a show (store) callback are not readable (writable).
//
// # Device lock
//
// Device implements sync.Locker. The lock is the device-wide mutex that
// components such as pkg/pwrscale hold across state transitions.
package model

// Package pwrscale attaches pluggable power-scaling policies to devices.
//
// # Slot
//
// Every device owns one Scale. A Scale holds at most one attached Policy.
// Transitions are serialized by the device's own lock, which is held for
// the whole duration of a policy's Init and Close hooks:
//
//	Empty --Attach(P)--> Attached(P)            runs P.Init
//	Attached(P) --Attach(Q)--> Attached(Q)      runs P.Close, then Q.Init
//	Attached(P) --Attach(Q)--> Empty            if Q.Init fails
//	Attached(P) --Detach--> Empty               runs P.Close
//	Empty --Detach--> Empty                     no-op
//
// A slow Init blocks every other Attach and Detach on the same device.
// Hooks must not call Attach, Detach or Close on their own Scale.
//
// # Dispatch
//
// Sleep, Wake, Busy and Idle forward device lifecycle signals to the
// attached policy. They read an atomically published snapshot and never
// take the device lock. A policy becomes visible to dispatch only after
// its Init succeeded and stops being visible before its Close runs.
//
// # Property surface
//
// New registers the "pwrscale" group on the device's property tree:
//
//	pwrscale/policy          RW  active policy name, or "none"
//	pwrscale/avail_policies  R   registered names followed by "none"
//
// Writing a name that starts with "none" detaches. Writing an unknown name
// is accepted and changes nothing. A failing Init surfaces as ErrIO.
// Policies can publish their own tunables under pwrscale/<policy> with
// AddFiles from their Init hook.
package pwrscale

// Package deps checks that the system tools a generated application needs
// are installed at a sufficient version. Declarations come from an embedded
// table. Each probe runs through the host shell and the first dotted version
// in its output is compared against the declared minimum. Probe failures
// never abort a run; they surface as unsatisfied results that the caller
// reports in full.
package deps

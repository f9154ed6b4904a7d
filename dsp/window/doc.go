// Package window generates the tapering windows applied to the analysis
// window before the forward transform.
//
// Coefficients are generated once per engine and treated as immutable.
package window

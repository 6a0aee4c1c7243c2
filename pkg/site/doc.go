// Package site models the presentational shell around the intake form: the
// campaign copy, the case carousel, the mobile menu, FAQ tabs, the floating
// call-to-action and the theme palette.
package site

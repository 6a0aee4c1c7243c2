// Package document renders the retention agreement and the claimant
// declaration from embedded templates and converts the result into a
// downloadable file.
//
// Rendering always runs the template output through a sanitising policy that
// only admits the small markup vocabulary the converters understand, so a
// converter never has to cope with arbitrary HTML.
package document

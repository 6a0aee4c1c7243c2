// Package jurisdictions serves the state and territory list behind the
// questionnaire's jurisdiction field as searchable JSON options.
//
// The handler responds to GET and HEAD requests and supports query and limit
// parameters. Matches on the two-letter code or the start of the name rank
// ahead of matches elsewhere in the name.
package jurisdictions

// Package model describes the claimant intake questionnaire: the field catalog,
// the flat Intake Record that collects answers, and the fixed three-step
// layout the workflow walks through.
package model

// Package acceptance holds the Gherkin scenarios of the borrowing lifecycle and their step definitions.
package acceptance

// Package withtests has an assertion set and a test file.
package withtests

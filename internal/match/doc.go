// Package match suggests the closest known spelling for a misspelled
// directive or field marker.
package match

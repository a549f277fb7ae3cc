// Package sanitizer removes instructor-only regions from text.
//
// A region starts on a line containing REPOBEE-SANITIZER-START and ends on a
// line containing REPOBEE-SANITIZER-END. Lines inside the region are dropped.
// An optional REPOBEE-SANITIZER-REPLACE-WITH line splits the region; lines
// after it are kept with the comment prefix of the START line removed, so a
// solution can be swapped for a commented-out stub:
//
//	// REPOBEE-SANITIZER-START
//	return solve(input);
//	// REPOBEE-SANITIZER-REPLACE-WITH
//	// throw new UnsupportedOperationException();
//	// REPOBEE-SANITIZER-END
//
// becomes
//
//	throw new UnsupportedOperationException();
//
// Marker lines are always removed. Sanitizing already sanitized text is a no-op.
package sanitizer

package cpu

import "time"

// Pacer throttles Run's instruction loop against wall-clock time. After
// each Step, Run calls Pace with the cycle count the instruction took
// and how long dispatch+handler actually consumed; an implementation is
// expected to block for whatever remains of the instruction's clock
// budget. A nil Pacer means run at full host speed.
type Pacer interface {
	Pace(cycles int, elapsed time.Duration)
}

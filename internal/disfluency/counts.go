package disfluency

import "strings"

// Counts holds the per-utterance totals of the repair types we score:
// edit terms, repeat repairs, and restarts.
type Counts struct {
	Edit    int
	Repeat  int
	Restart int
}

// Tag prefixes identifying each repair type in the tagger's output.
const (
	editPrefix    = "<e"
	repeatPrefix  = "<rpnrep"
	restartPrefix = "<rps"
)

// Count tallies the repair types present in a tag stream.
func Count(tags []string) Counts {
	var c Counts
	for _, tag := range tags {
		if strings.Contains(tag, editPrefix) {
			c.Edit++
		}
		if strings.Contains(tag, repeatPrefix) {
			c.Repeat++
		}
		if strings.Contains(tag, restartPrefix) {
			c.Restart++
		}
	}
	return c
}

// Add accumulates another utterance's counts into the receiver.
func (c *Counts) Add(other Counts) {
	c.Edit += other.Edit
	c.Repeat += other.Repeat
	c.Restart += other.Restart
}

// Total is the sum over all repair types.
func (c Counts) Total() int {
	return c.Edit + c.Repeat + c.Restart
}

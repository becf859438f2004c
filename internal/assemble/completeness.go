package assemble

import "fmt"

// completeness tracks observed query completions against registered
// hand-offs.
type completeness struct {
	observed   int
	registered int
}

func (c *completeness) observe() {
	c.observed++
}

func (c *completeness) register() {
	c.registered++
}

func (c *completeness) check() error {
	if c.observed == c.registered {
		return nil
	}
	return NewInternalInconsistencyError(
		fmt.Sprintf("%d query nodes completed but %d were registered", c.observed, c.registered),
		map[string]string{
			"observed":   fmt.Sprintf("%d", c.observed),
			"registered": fmt.Sprintf("%d", c.registered),
		},
	)
}

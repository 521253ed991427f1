package domain

import "fmt"

// Candidate is an ip:port pair extracted from raw text, before any
// validation has run. Comparable so it can key dedup maps directly.
type Candidate struct {
	IP   string
	Port uint16
}

func (c Candidate) Addr() string {
	return fmt.Sprintf("%s:%d", c.IP, c.Port)
}

package remote

import "strings"

// Jar accumulates cookies across the requests of one sync run. Only the
// name=value pair of each Set-Cookie line is kept; attributes such as
// Path or Expires are ignored because the jar never outlives the run.
type Jar struct {
	values map[string]string
	order  []string
}

func NewJar() *Jar {
	return &Jar{values: map[string]string{}}
}

// Absorb parses Set-Cookie header lines and upserts their name=value
// pairs into the jar. The last value seen for a name wins.
func (j *Jar) Absorb(setCookies []string) {
	for _, line := range setCookies {
		pair, _, _ := strings.Cut(line, ";")
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, exists := j.values[name]; !exists {
			j.order = append(j.order, name)
		}
		j.values[name] = strings.TrimSpace(value)
	}
}

// Get returns the current value for a cookie name, or "".
func (j *Jar) Get(name string) string {
	return j.values[name]
}

// Header renders the jar as a single request Cookie header value.
func (j *Jar) Header() string {
	pairs := make([]string, 0, len(j.order))
	for _, name := range j.order {
		pairs = append(pairs, name+"="+j.values[name])
	}
	return strings.Join(pairs, "; ")
}

// Len returns the number of cookies held.
func (j *Jar) Len() int {
	return len(j.values)
}

package model

// Check is one doctor probe over the build inputs.
type Check struct {
	Name string
	// Required marks checks whose failure would also abort a build.
	Required bool
	OK       bool
	Detail   string
}

// DoctorReport aggregates the probes run against a working directory.
type DoctorReport struct {
	Checks []Check
}

// Healthy reports whether every required check passed.
func (r DoctorReport) Healthy() bool {
	return len(r.MissingRequired()) == 0
}

// MissingRequired returns the required checks that failed.
func (r DoctorReport) MissingRequired() []Check {
	var missing []Check

	for _, check := range r.Checks {
		if check.Required && !check.OK {
			missing = append(missing, check)
		}
	}

	return missing
}

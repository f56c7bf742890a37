package script

import (
	"errors"

	"github.com/milk9111/bodybind/scenefile"
)

// AttachScene attaches the script of every body in s that names one.
// Bodies whose script fails to compile are skipped and reported.
func (r *Runner) AttachScene(s *scenefile.Scene) error {
	if s == nil {
		return nil
	}
	var errs []error
	for _, b := range s.Bodies {
		name, ok := s.Scripts[b.Item.Name]
		if !ok {
			continue
		}
		if err := r.Attach(b, name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

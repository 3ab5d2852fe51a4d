package session

import "github.com/philipparndt/godtr/pkg/tiltseries"

// SaveCache writes the image analysis to path. A failure is reported on the
// bus and returned; the session carries on either way.
func (s *Session) SaveCache(path string) error {
	if err := tiltseries.SaveCache(s.images, path); err != nil {
		s.reportError(err)
		return err
	}
	s.log.Info("image analysis saved", "path", path)
	return nil
}

func (s *Session) reportError(err error) {
	s.log.Warn("operation failed", "error", err)
	s.bus.ReportError(err)
}

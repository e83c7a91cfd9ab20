package reader

import (
	mpperrors "github.com/heyvito/mpp/errors"
	"github.com/heyvito/mpp/internal/codec"
	"github.com/heyvito/mpp/internal/metrics"
	"github.com/heyvito/mpp/internal/store"
)

var passwordFlags = struct {
	Protection byte
}{
	Protection: 0x01,
}

// checkPassword reads the unencoded root property block, rejecting protected
// files before anything else is decoded, and records whether the remaining
// regions are encrypted.
func (s *session) checkPassword() error {
	buf, err := s.root.stream(s.gen.RootProps)
	if err != nil {
		return err
	}
	props, err := store.NewProps(buf)
	if err != nil {
		return corrupt(s.gen.RootProps, err)
	}

	flag := props.Byte(propPasswordFlag)
	s.encrypted = flag != 0
	s.encryptionCode = props.Byte(propEncryptionCode)
	s.project.Properties.Encrypted = s.encrypted

	if flag&passwordFlags.Protection == 0 {
		return nil
	}
	if s.gen.RefusesPassword {
		return s.rejectPassword()
	}

	hash, _ := props.Bytes(propProtectionPasswordHash)
	password, ok := codec.DecodePassword(hash, s.encryptionCode)
	// A protection flag without a stored password does not protect anything.
	if !ok || password == "" {
		return nil
	}
	if s.cfg.GetReadPassword() != password {
		return s.rejectPassword()
	}
	return nil
}

func (s *session) rejectPassword() error {
	metrics.Simple(metrics.ReaderPasswordRejections, 0)
	return mpperrors.PasswordProtected{Format: s.project.Properties.Format}
}

// readProperties decodes the project property block and derives the
// duration settings used by every later stage.
func (s *session) readProperties(buf []byte, path string) error {
	props, err := store.NewProps(buf)
	if err != nil {
		return corrupt(path, err)
	}
	s.projectProps = props

	p := &s.project.Properties
	p.StartDate = props.Timestamp(propProjectStartDate, s.loc)
	p.FinishDate = props.Timestamp(propProjectFinishDate, s.loc)
	p.StatusDate = props.Timestamp(propStatusDate, s.loc)
	p.DefaultCalendarName = props.UnicodeString(propDefaultCalendarName)
	p.CurrencySymbol = props.UnicodeString(propCurrencySymbol)
	p.MinutesPerDay = props.Int32(propMinutesPerDay)
	p.MinutesPerWeek = props.Int32(propMinutesPerWeek)
	p.DaysPerMonth = props.Int16(propDaysPerMonth)
	if b, ok := props.Bytes(propProjectGUID); ok && len(b) >= 16 {
		guid := codec.GUID(b, 0)
		p.GUID = &guid
	}

	s.durations = s.durationSettings()
	return nil
}

// durationSettings prefers configured values, then the ones stored in the
// file, then the application defaults.
func (s *session) durationSettings() codec.DurationSettings {
	d := codec.DefaultDurationSettings()
	p := s.project.Properties
	if p.MinutesPerDay > 0 {
		d.MinutesPerDay = float64(p.MinutesPerDay)
	}
	if p.MinutesPerWeek > 0 {
		d.MinutesPerWeek = float64(p.MinutesPerWeek)
	}
	if p.DaysPerMonth > 0 {
		d.DaysPerMonth = float64(p.DaysPerMonth)
	}
	if v := s.cfg.GetHoursPerDay(); v > 0 {
		d.MinutesPerDay = v * 60
	}
	if v := s.cfg.GetHoursPerWeek(); v > 0 {
		d.MinutesPerWeek = v * 60
	}
	if v := s.cfg.GetDaysPerMonth(); v > 0 {
		d.DaysPerMonth = v
	}
	return d
}

package reader

import "github.com/heyvito/mpp/internal/store"

// presentationNameTag holds the name of views, tables, filters and groups.
const presentationNameTag = 1

// readPresentation collects the names of the presentation items stored in
// the view directory. Missing directories are skipped.
func (s *session) readPresentation() error {
	if s.viewDir.Directory == nil {
		return nil
	}
	targets := []struct {
		dir  string
		into *[]string
	}{
		{"CV_iew", &s.project.Views},
		{"CTable", &s.project.Tables},
		{"CFilter", &s.project.Filters},
		{"CGrouping", &s.project.Groups},
	}
	for _, t := range targets {
		dir, err := s.viewDir.sub(t.dir)
		if err != nil {
			s.log.Debug("Presentation directory not found", "path", s.viewDir.join(t.dir))
			continue
		}
		varData, err := s.varStore(dir)
		if err != nil {
			s.log.Debug("Presentation names unavailable", "path", dir.path, "error", err.Error())
			continue
		}
		*t.into = presentationNames(varData)
	}
	return nil
}

func presentationNames(varData *store.VarData) []string {
	var names []string
	for _, uid := range varData.UniqueIdentifiers() {
		if name := varData.UnicodeString(uid, presentationNameTag); name != "" {
			names = append(names, name)
		}
	}
	return names
}

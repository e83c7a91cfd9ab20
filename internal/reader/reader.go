package reader

import (
	"time"

	"github.com/heyvito/mpp/internal"
	"github.com/heyvito/mpp/internal/container"
	"github.com/heyvito/mpp/internal/metrics"
	"github.com/heyvito/mpp/internal/resolve"
	"github.com/heyvito/mpp/schedule"
)

// Read decodes the schedule held by root.
func Read(root container.Directory, cfg internal.Config) (*schedule.Project, error) {
	metrics.Simple(metrics.ReaderReadCalls, 0)
	defer metrics.Measure(metrics.ReaderReadLatency)()

	log := cfg.GetLogger()
	version, format, err := Detect(root)
	if err != nil {
		metrics.Simple(metrics.ReaderReadFailures, 0)
		log.Error(err, "Format detection failed", "format", format)
		return nil, err
	}

	s := newSession(root, cfg, version, format)
	log.Info("Read started", "format", format, "session", s.id.String())
	start := time.Now()

	if version == 8 {
		err = s.readMPP8()
	} else {
		err = s.read()
	}
	if err != nil {
		metrics.Simple(metrics.ReaderReadFailures, 0)
		log.Error(err, "Read failed", "format", format, "session", s.id.String())
		return nil, err
	}

	p := s.project
	log.Info("Read completed",
		"format", format,
		"session", s.id.String(),
		"calendars", len(p.Calendars),
		"tasks", len(p.Tasks),
		"resources", len(p.Resources),
		"assignments", len(p.Assignments),
		"relations", len(p.Relations),
		"elapsed", time.Since(start).String(),
	)
	return p, nil
}

// read runs the pipeline shared by the generations storing their tables as
// meta and var-data pairs.
func (s *session) read() error {
	if err := s.checkPassword(); err != nil {
		return err
	}

	var err error
	if s.projectDir, err = s.root.sub(s.gen.ProjectDir); err != nil {
		return err
	}
	if viewDir, err := s.root.sub(s.gen.ViewDir); err == nil {
		s.viewDir = viewDir
	}

	err = s.stage("Properties", metrics.StagePropertiesLatency, func() error {
		buf, err := s.encryptable(s.projectDir, "Props")
		if err != nil {
			return err
		}
		return s.readProperties(buf, s.projectDir.join("Props"))
	})
	if err != nil {
		return err
	}

	return s.pipeline(s.readCalendars, s.readResources, s.readTasks, s.readRelations, s.readAssignments)
}

type step struct {
	name string
	kind metrics.MetricKind
	fn   func() error
}

// pipeline runs the stages following the properties, in dependency order.
func (s *session) pipeline(calendars, resources, tasks, relations, assignments func() error) error {
	steps := []step{
		{"Sub-projects", metrics.StageSubProjectsLatency, s.readSubProjects},
		{"Calendars", metrics.StageCalendarsLatency, calendars},
		{"Resources", metrics.StageResourcesLatency, resources},
		{"Tasks", metrics.StageTasksLatency, tasks},
		{"Relations", metrics.StageRelationsLatency, relations},
		{"Assignments", metrics.StageAssignmentsLatency, assignments},
	}
	if s.cfg.GetReadPresentationData() {
		steps = append(steps, step{"Presentation", metrics.StagePresentationLatency, s.presentationReader()})
	}

	for _, st := range steps {
		if err := s.stage(st.name, st.kind, st.fn); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) presentationReader() func() error {
	if s.gen == nil {
		return s.readPresentation8
	}
	return s.readPresentation
}

func (s *session) readSubProjects() error {
	if s.gen == nil || s.projectProps == nil {
		return nil
	}
	data, ok := s.projectProps.Bytes(propSubProjectData)
	if !ok {
		return nil
	}
	s.subProjects = resolve.SubProjects(data, s.gen.SubProjects)
	for _, sp := range s.subProjects.SubProjects {
		s.project.AddSubProject(sp)
	}
	return nil
}

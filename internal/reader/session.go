package reader

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-stdlog/stdlog"
	"github.com/segmentio/ksuid"

	mpperrors "github.com/heyvito/mpp/errors"
	"github.com/heyvito/mpp/internal"
	"github.com/heyvito/mpp/internal/codec"
	"github.com/heyvito/mpp/internal/container"
	"github.com/heyvito/mpp/internal/metrics"
	"github.com/heyvito/mpp/internal/resolve"
	"github.com/heyvito/mpp/internal/rtf"
	"github.com/heyvito/mpp/internal/store"
	"github.com/heyvito/mpp/schedule"
)

// session holds the state of a single read pass. Every map built while
// decoding lives here and is dropped with the session.
type session struct {
	cfg     internal.Config
	log     stdlog.Logger
	id      ksuid.KSUID
	format  string
	version int
	gen     *Generation

	root       region
	projectDir region
	viewDir    region

	project   *schedule.Project
	loc       *time.Location
	durations codec.DurationSettings

	encrypted      bool
	encryptionCode byte

	projectProps *store.Props
	subProjects  *resolve.SubProjectTable
	// resourceCalendars associates resource unique IDs with the calendar
	// holding their working time.
	resourceCalendars map[int]*schedule.Calendar
	// highestNullTaskID is the largest display ID held by a blank row.
	highestNullTaskID int
}

func newSession(root container.Directory, cfg internal.Config, version int, format string) *session {
	name := fmt.Sprintf("MPP%d", version)
	s := &session{
		cfg:               cfg,
		log:               cfg.GetLogger().Named(strings.ToLower(name)),
		id:                ksuid.New(),
		format:            format,
		version:           version,
		gen:               generations[version],
		root:              region{Directory: root},
		project:           schedule.NewProject(),
		loc:               cfg.GetLocation(),
		durations:         codec.DefaultDurationSettings(),
		resourceCalendars: map[int]*schedule.Calendar{},
		highestNullTaskID: -1,
		subProjects:       &resolve.SubProjectTable{ByTask: map[int]*schedule.SubProject{}},
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	s.project.Properties.Format = name
	return s
}

// region is a directory of the container along with its path, used to
// report missing entries.
type region struct {
	container.Directory
	path string
}

func (r region) join(name string) string {
	if r.path == "" {
		return name
	}
	return r.path + "/" + name
}

func (r region) sub(name string) (region, error) {
	d, ok := r.Directory.Directory(name)
	if !ok {
		return region{}, mpperrors.MissingRegion{Path: r.join(name)}
	}
	return region{Directory: d, path: r.join(name)}, nil
}

func (r region) stream(name string) ([]byte, error) {
	data, ok := r.Directory.Stream(name)
	if !ok {
		return nil, mpperrors.MissingRegion{Path: r.join(name)}
	}
	return data, nil
}

// encryptable returns the contents of a stream that is obfuscated when the
// file is encrypted. The container data is never modified; decryption works
// on a copy.
func (s *session) encryptable(r region, name string) ([]byte, error) {
	data, err := r.stream(name)
	if err != nil || !s.encrypted {
		return data, err
	}
	out := make([]byte, len(data))
	copy(out, data)
	codec.XOR(out, s.encryptionCode)
	metrics.Simple(metrics.StoreDecryptedBytes, float64(len(out)))
	return out, nil
}

func corrupt(path string, err error) error {
	return mpperrors.CorruptFormat{Region: path, Reason: err.Error()}
}

// varStore loads the VarMeta and Var2Data pair of a table directory.
func (s *session) varStore(r region) (*store.VarData, error) {
	metaBuf, err := r.stream("VarMeta")
	if err != nil {
		return nil, err
	}
	dataBuf, err := r.stream("Var2Data")
	if err != nil {
		return nil, err
	}
	meta, err := store.NewVarMeta(metaBuf, s.gen.VarMeta)
	if err != nil {
		return nil, corrupt(r.join("VarMeta"), err)
	}
	metrics.Simple(metrics.StoreVarEntries, float64(meta.ItemCount()))
	return store.NewVarData(meta, dataBuf), nil
}

// fixedMeta loads the FixedMeta stream of a table directory.
func (s *session) fixedMeta(r region, name string, itemSize int) (*store.FixedMeta, error) {
	buf, err := r.stream(name)
	if err != nil {
		return nil, err
	}
	meta, err := store.NewFixedMeta(buf, itemSize)
	if err != nil {
		return nil, corrupt(r.join(name), err)
	}
	return meta, nil
}

func (s *session) countFixed(data *store.FixedData) *store.FixedData {
	metrics.Simple(metrics.StoreFixedRecords, float64(data.ItemCount()))
	return data
}

// stage runs one step of the read pipeline, timing it.
func (s *session) stage(name string, kind metrics.MetricKind, fn func() error) error {
	defer metrics.Measure(kind)()
	start := time.Now()
	if err := fn(); err != nil {
		return err
	}
	s.log.Debug(name+" completed", "elapsed", time.Since(start).String())
	return nil
}

// absorb records an entity dropped because of a local inconsistency.
func (s *session) absorb(entity string, uniqueID int, reason string) {
	metrics.Simple(metrics.StoreAbsorbedEntities, 1)
	s.log.Debug("Ignoring invalid "+entity, "unique_id", uniqueID, "reason", reason)
}

// notes post-processes note text according to the configuration.
func (s *session) notes(text string) string {
	if text == "" || s.cfg.GetPreserveNoteFormatting() {
		return text
	}
	return rtf.Strip(text)
}

// pad returns rec extended with zeroes up to n bytes, so that fixed offsets
// past the end of a short record read as zero.
func pad(rec []byte, n int) []byte {
	if len(rec) >= n {
		return rec
	}
	out := make([]byte, n)
	copy(out, rec)
	return out
}

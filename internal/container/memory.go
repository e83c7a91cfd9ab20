package container

// Memory is a Container assembled in memory. Paths use slashes as
// separators; the last component of a stream path is the stream name.
type Memory struct {
	root *node
}

func NewMemory() *Memory {
	return &Memory{root: newNode("Root Entry")}
}

// Add stores data as a stream at path, creating parent directories as
// required. Adding to an existing path replaces its contents.
func (m *Memory) Add(path string, data []byte) *Memory {
	parts := splitPath(path)
	dir := m.root.mkdirAll(parts[:len(parts)-1])
	dir.streams[parts[len(parts)-1]] = data
	return m
}

// AddDirectory creates an empty directory at path.
func (m *Memory) AddDirectory(path string) *Memory {
	m.root.mkdirAll(splitPath(path))
	return m
}

func (m *Memory) Name() string                            { return m.root.Name() }
func (m *Memory) Directory(name string) (Directory, bool) { return m.root.Directory(name) }
func (m *Memory) Stream(name string) ([]byte, bool)       { return m.root.Stream(name) }
func (m *Memory) Entries() []string                       { return m.root.Entries() }
func (m *Memory) Close() error                            { return nil }

package attachments

import "sync"

// MemorySink holds bytes in process memory. References are only meaningful
// for the lifetime of the process; it exists for deployments that relay
// bytes onward immediately, and for tests.
type MemorySink struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemorySink() *MemorySink {
	return &MemorySink{objects: make(map[string][]byte)}
}

func (s *MemorySink) Store(data []byte, mimeType, ownerKey string) (string, error) {
	name := "mem://" + objectName(mimeType, ownerKey)

	buf := make([]byte, len(data))
	copy(buf, data)

	s.mu.Lock()
	s.objects[name] = buf
	s.mu.Unlock()

	return name, nil
}

func (s *MemorySink) Remove(reference string) {
	s.mu.Lock()
	delete(s.objects, reference)
	s.mu.Unlock()
}

// Get retrieves stored bytes by reference. Used by callers that relay the
// payload onward in the same request.
func (s *MemorySink) Get(reference string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[reference]
	return data, ok
}

// Len reports how many objects are currently held.
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// Package render is the boundary to the rendering collaborator.
package render

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/OCharnyshevich/voxel-streamer/pkg/world/chunk"
)

// Handle identifies a submitted mesh.
type Handle uuid.UUID

func (h Handle) String() string { return uuid.UUID(h).String() }

// Submitter turns meshes into drawable objects.
type Submitter interface {
	// Submit takes ownership of mesh, placed at the world-space origin.
	Submit(mesh *chunk.Mesh, origin mgl32.Vec3) Handle
	// Release disposes of a previously submitted mesh.
	Release(h Handle)
}

// Entry is a mesh held by a Recorder.
type Entry struct {
	Mesh   *chunk.Mesh
	Origin mgl32.Vec3
}

// Recorder is an in-memory Submitter for headless runs and tests.
type Recorder struct {
	mu        sync.Mutex
	live      map[Handle]Entry
	submitted int
	released  int
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{live: make(map[Handle]Entry)}
}

func (r *Recorder) Submit(mesh *chunk.Mesh, origin mgl32.Vec3) Handle {
	h := Handle(uuid.New())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.live[h] = Entry{Mesh: mesh, Origin: origin}
	r.submitted++
	return h
}

func (r *Recorder) Release(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.live[h]; ok {
		delete(r.live, h)
		r.released++
	}
}

// Get returns the live mesh behind h.
func (r *Recorder) Get(h Handle) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.live[h]
	return e, ok
}

// Stats returns live, submitted and released mesh counts.
func (r *Recorder) Stats() (live, submitted, released int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live), r.submitted, r.released
}

// Quads returns the total face count of all live meshes.
func (r *Recorder) Quads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.live {
		n += e.Mesh.Quads()
	}
	return n
}

package storage

import "sync"

// Profile lives only in memory; it is rebuilt as users post after a restart.
type Profile struct {
	Nombre string   `json:"nombre"`
	Avatar *string  `json:"avatar"`
	Posts  []string `json:"posts"`
}

type Profiles struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

func NewProfiles() *Profiles {
	return &Profiles{profiles: make(map[string]*Profile)}
}

// AddPost creates the profile on first use and appends postID to it.
// Name and avatar are captured only when the profile is created.
func (p *Profiles) AddPost(userID, name string, avatar *string, postID string) Profile {
	p.mu.Lock()
	defer p.mu.Unlock()

	prof, ok := p.profiles[userID]
	if !ok {
		prof = &Profile{Nombre: name, Avatar: avatar, Posts: []string{}}
		p.profiles[userID] = prof
	}
	prof.Posts = append(prof.Posts, postID)
	return prof.copy()
}

func (p *Profiles) Get(userID string) (Profile, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	prof, ok := p.profiles[userID]
	if !ok {
		return Profile{}, false
	}
	return prof.copy(), true
}

func (p *Profile) copy() Profile {
	c := *p
	c.Posts = append([]string(nil), p.Posts...)
	return c
}

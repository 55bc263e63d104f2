package engine

import (
	"fmt"
	"maps"
	"slices"
	"unicode/utf8"
)

const MaxNameLength = 25

type Player struct {
	Name string
	Team TeamID
}

// Registry tracks connected players by session id and the roster of each team.
type Registry struct {
	Players map[string]Player
	Teams   map[TeamID]map[string]struct{}
}

func NewRegistry() Registry {
	r := Registry{
		Players: map[string]Player{},
		Teams:   map[TeamID]map[string]struct{}{},
	}
	for _, t := range Teams {
		r.Teams[t] = map[string]struct{}{}
	}
	return r
}

// Register creates or overwrites the player for sessionID. An overwritten
// player starts over without a team.
func (r *Registry) Register(sessionID, name string) error {
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return ErrInvalidName
	}
	if old, ok := r.Players[sessionID]; ok && old.Team != NoTeam {
		delete(r.Teams[old.Team], sessionID)
	}
	r.Players[sessionID] = Player{Name: name}
	return nil
}

func (r *Registry) AssignTeam(sessionID string, team TeamID) error {
	if !team.Valid() {
		return ErrInvalidTeam
	}
	p, ok := r.Players[sessionID]
	if !ok {
		return fmt.Errorf("set your name before joining a team: %w", ErrPlayerNotRegistered)
	}
	if p.Team != NoTeam {
		return fmt.Errorf("%w: team %d", ErrAlreadyOnTeam, p.Team)
	}
	p.Team = team
	r.Players[sessionID] = p
	r.Teams[team][sessionID] = struct{}{}
	return nil
}

// Remove drops the player and its roster entry. It reports false when the
// session never registered.
func (r *Registry) Remove(sessionID string) (Player, bool) {
	p, ok := r.Players[sessionID]
	if !ok {
		return Player{}, false
	}
	if p.Team != NoTeam {
		delete(r.Teams[p.Team], sessionID)
	}
	delete(r.Players, sessionID)
	return p, true
}

func (r Registry) Player(sessionID string) (Player, bool) {
	p, ok := r.Players[sessionID]
	return p, ok
}

// Roster returns the session ids on team, sorted.
func (r Registry) Roster(team TeamID) []string {
	var ids []string
	for id := range r.Teams[team] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (r Registry) Clone() Registry {
	c := Registry{
		Players: maps.Clone(r.Players),
		Teams:   make(map[TeamID]map[string]struct{}, len(r.Teams)),
	}
	if c.Players == nil {
		c.Players = map[string]Player{}
	}
	for t, members := range r.Teams {
		c.Teams[t] = maps.Clone(members)
	}
	for _, t := range Teams {
		if c.Teams[t] == nil {
			c.Teams[t] = map[string]struct{}{}
		}
	}
	return c
}

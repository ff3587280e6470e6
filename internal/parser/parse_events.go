package parser

import (
	"fmt"

	"github.com/OCAP2/missionscore/pkg/core"
)

// ParseObjectSpawned extracts an OBJECT_SPAWNED record (COUNTRY, ID, PID, TYPE).
func (p *Parser) ParseObjectSpawned(e core.Event) (core.SpawnEvent, error) {
	var result core.SpawnEvent

	t, err := e.Time()
	if err != nil {
		return result, fmt.Errorf("error parsing object spawned: %w", err)
	}
	result.Time = t

	country, err := e.Int("COUNTRY")
	if err != nil {
		return result, fmt.Errorf("error parsing object spawned country: %w", err)
	}
	result.Country = country

	id, err := e.Int("ID")
	if err != nil {
		return result, fmt.Errorf("error parsing object spawned id: %w", err)
	}
	result.ID = core.EntityID(id)

	parent, err := e.Int("PID")
	if err != nil {
		return result, fmt.Errorf("error parsing object spawned parent id: %w", err)
	}
	result.Parent = core.EntityID(parent)

	result.Type, err = e.String("TYPE")
	if err != nil {
		return result, fmt.Errorf("error parsing object spawned type: %w", err)
	}

	return result, nil
}

// ParsePlayerPlane extracts a PLAYER_PLANE record (PID, PLID, NAME).
func (p *Parser) ParsePlayerPlane(e core.Event) (core.PlayerPlaneEvent, error) {
	var result core.PlayerPlaneEvent

	t, err := e.Time()
	if err != nil {
		return result, fmt.Errorf("error parsing player plane: %w", err)
	}
	result.Time = t

	player, err := e.Int("PID")
	if err != nil {
		return result, fmt.Errorf("error parsing player plane pilot id: %w", err)
	}
	result.Player = core.EntityID(player)

	plane, err := e.Int("PLID")
	if err != nil {
		return result, fmt.Errorf("error parsing player plane plane id: %w", err)
	}
	result.Plane = core.EntityID(plane)

	result.Name, err = e.String("NAME")
	if err != nil {
		return result, fmt.Errorf("error parsing player plane name: %w", err)
	}

	return result, nil
}

// ParseHit extracts a HIT record (AID, TID).
func (p *Parser) ParseHit(e core.Event) (core.HitEvent, error) {
	t, attacker, target, err := parseAttack(e)
	if err != nil {
		return core.HitEvent{}, fmt.Errorf("error parsing hit: %w", err)
	}
	return core.HitEvent{Time: t, Attacker: attacker, Target: target}, nil
}

// ParseKill extracts a KILL record (AID, TID). AID is -1 when the
// simulator did not report an attacker.
func (p *Parser) ParseKill(e core.Event) (core.KillEvent, error) {
	t, attacker, target, err := parseAttack(e)
	if err != nil {
		return core.KillEvent{}, fmt.Errorf("error parsing kill: %w", err)
	}
	return core.KillEvent{Time: t, Attacker: attacker, Target: target}, nil
}

func parseAttack(e core.Event) (t int, attacker, target core.EntityID, err error) {
	t, err = e.Time()
	if err != nil {
		return 0, 0, 0, err
	}
	aid, err := e.Int("AID")
	if err != nil {
		return 0, 0, 0, err
	}
	tid, err := e.Int("TID")
	if err != nil {
		return 0, 0, 0, err
	}
	return t, core.EntityID(aid), core.EntityID(tid), nil
}

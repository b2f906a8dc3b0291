package server

import (
	"encoding/json"
	"fmt"

	"github.com/lab1702/tank-arena/game"
)

// handleMessage processes a message from the client
func (c *Client) handleMessage(msg ClientMessage) {
	// Recover from any panic to prevent disconnection
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("panic in handleMessage", "type", msg.Type, "panic", r)
		}
	}()

	var err error
	switch msg.Type {
	case MsgTypeStart:
		err = c.server.sim.StartWaves()
	case MsgTypeStop:
		c.server.sim.StopWaves()
	case MsgTypeReset:
		err = c.server.sim.ResetRound()
	case MsgTypeDamage:
		err = c.handleDamage(msg.Data)
	case MsgTypeMove:
		err = c.handleMove(msg.Data)
	case MsgTypeCharge:
		err = c.handleCharge(msg.Data)
	case MsgTypeRelease:
		err = c.handleRelease(msg.Data)
	case MsgTypeSpawn:
		err = c.handleSpawn(msg.Data)
	default:
		err = fmt.Errorf("unknown message type %q", msg.Type)
	}

	if err != nil {
		c.logger.Debug("command rejected", "type", msg.Type, "error", err)
		c.reply(MsgTypeError, map[string]interface{}{
			"type":  msg.Type,
			"error": err.Error(),
		})
	}
}

// handleDamage applies damage to any live unit
func (c *Client) handleDamage(data json.RawMessage) error {
	var d DamageData
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("damage: %w", err)
	}
	return c.server.sim.Damage(d.ID, validateFinite(d.Amount))
}

// handleMove sets the course of a player-driven tank
func (c *Client) handleMove(data json.RawMessage) error {
	var d MoveData
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("move: %w", err)
	}
	return c.server.sim.Move(d.ID, validateDirection(d.Dir), validateFinite(d.Speed))
}

// handleCharge starts charging a player-driven tank's shot
func (c *Client) handleCharge(data json.RawMessage) error {
	var d UnitData
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("charge: %w", err)
	}
	return c.server.sim.Charge(d.ID)
}

// handleRelease fires a player-driven tank's charged shot
func (c *Client) handleRelease(data json.RawMessage) error {
	var d UnitData
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("release: %w", err)
	}
	return c.server.sim.Release(d.ID)
}

// handleSpawn adds a unit to the battlefield
func (c *Client) handleSpawn(data json.RawMessage) error {
	var d SpawnData
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("spawn: %w", err)
	}
	class, ok := parseClass(d.Class)
	if !ok {
		return fmt.Errorf("spawn: unknown class %q", d.Class)
	}
	pos := game.V(validateFinite(d.X), validateFinite(d.Y))
	id, err := c.server.sim.Spawn(class, pos, validateDirection(d.Dir), d.Pilot)
	if err != nil {
		return err
	}
	c.reply(MsgTypeSpawn, UnitData{ID: id})
	return nil
}

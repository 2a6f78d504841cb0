package puzzle

import "github.com/charmbracelet/log"

// PlacementObserver is notified after a move, rotate or flip leaves a piece
// placed on the grid. The Session implements it.
type PlacementObserver interface {
	OnPlacementChanged(p *Piece)
}

// PieceSpec describes a piece at spawn time.
type PieceSpec struct {
	ID          PieceID
	Front       FaceID
	Back        FaceID
	Rotation    Rotation
	Flipped     bool
	Symmetric   bool // Flip state is ignored during validation
	TracksUsage bool // Visible face takes part in duplicate bookkeeping
	Home        Vec2 // Spawn position off the grid
}

// Piece is a two-faced tile that can be rotated, flipped and placed into a
// grid cell. A placed piece always corresponds to exactly one grid cell
// referencing it.
type Piece struct {
	id          PieceID
	front       FaceID
	back        FaceID
	rotation    Rotation
	flipped     bool
	symmetric   bool
	tracksUsage bool

	cell      int
	position  Vec2
	lastValid Vec2
	home      Vec2

	moving bool // Move in flight; the piece is not re-entrant during a move

	grid     *Grid
	observer PlacementObserver
	logger   *log.Logger
}

// NewPiece creates an unplaced piece bound to grid. observer may be nil.
func NewPiece(spec PieceSpec, grid *Grid, observer PlacementObserver, logger *log.Logger) *Piece {
	if logger == nil {
		logger = discardLogger()
	}
	rot := spec.Rotation
	if !rot.Valid() {
		rot = Rot0
	}
	return &Piece{
		id:          spec.ID,
		front:       spec.Front,
		back:        spec.Back,
		rotation:    rot,
		flipped:     spec.Flipped,
		symmetric:   spec.Symmetric,
		tracksUsage: spec.TracksUsage,
		cell:        NoCell,
		position:    spec.Home,
		lastValid:   spec.Home,
		home:        spec.Home,
		grid:        grid,
		observer:    observer,
		logger:      logger,
	}
}

// ID returns the stable piece identity.
func (p *Piece) ID() PieceID { return p.id }

// Front returns the front face identity.
func (p *Piece) Front() FaceID { return p.front }

// Back returns the back face identity.
func (p *Piece) Back() FaceID { return p.back }

// Rotation returns the current rotation.
func (p *Piece) Rotation() Rotation { return p.rotation }

// Flipped reports whether the back face is showing.
func (p *Piece) Flipped() bool { return p.flipped }

// Symmetric reports whether flip state is ignored during validation.
func (p *Piece) Symmetric() bool { return p.symmetric }

// TracksUsage reports whether the visible face takes part in duplicate bookkeeping.
func (p *Piece) TracksUsage() bool { return p.tracksUsage }

// Cell returns the occupied cell index, or NoCell.
func (p *Piece) Cell() int { return p.cell }

// Placed reports whether the piece occupies a grid cell.
func (p *Piece) Placed() bool { return p.cell != NoCell }

// Position returns the current world position.
func (p *Piece) Position() Vec2 { return p.position }

// Home returns the spawn position.
func (p *Piece) Home() Vec2 { return p.home }

// Moving reports whether a move is in flight.
func (p *Piece) Moving() bool { return p.moving }

// VisibleFace returns the face identity currently showing.
func (p *Piece) VisibleFace() FaceID {
	if p.flipped {
		return p.back
	}
	return p.front
}

// Rotate advances the rotation by 90 degrees. Rejected while a move is in flight.
func (p *Piece) Rotate() bool {
	if p.moving {
		p.logger.Warn("rotate ignored during move", "piece", p.id)
		return false
	}
	p.rotation = p.rotation.Next()
	p.logger.Debug("piece rotated", "piece", p.id, "rotation", int(p.rotation))
	p.revalidate()
	return true
}

// Flip toggles the visible face. Rejected while a move is in flight.
func (p *Piece) Flip() bool {
	if p.moving {
		p.logger.Warn("flip ignored during move", "piece", p.id)
		return false
	}
	p.flipped = !p.flipped
	p.logger.Debug("piece flipped", "piece", p.id, "face", int(p.VisibleFace()))
	p.revalidate()
	return true
}

func (p *Piece) revalidate() {
	if p.Placed() && p.observer != nil {
		p.observer.OnPlacementChanged(p)
	}
}

// MoveTo drops the piece at a world position and snaps it to the nearest cell.
//
// Dropping on the current cell only snaps. Dropping on a cell held by another
// piece reverts to the last valid position. Otherwise the previous cell is
// freed, the new one occupied and the placement re-validated. Returns false
// when the move was rejected or rolled back.
func (p *Piece) MoveTo(pos Vec2) bool {
	if p.moving {
		p.logger.Warn("move ignored, another move is in flight", "piece", p.id)
		return false
	}
	if p.grid == nil {
		return false
	}
	p.moving = true
	defer func() { p.moving = false }()

	snapped := p.grid.NearestCell(pos)
	target := p.grid.CellIndex(snapped)

	if target == p.cell {
		p.position = snapped
		p.lastValid = snapped
		return true
	}

	if holder := p.grid.TileAt(target); holder != nil && holder != p {
		p.logger.Debug("move rejected, cell occupied", "piece", p.id, "cell", target, "holder", holder.ID())
		p.position = p.lastValid
		return false
	}

	prev := p.cell
	if prev != NoCell {
		p.grid.Free(prev)
	}

	if !p.grid.Occupy(target, p) {
		if prev != NoCell {
			p.grid.Occupy(prev, p)
		}
		p.logger.Warn("occupy failed, move rolled back", "piece", p.id, "cell", target)
		p.position = p.lastValid
		return false
	}

	p.cell = target
	p.position = snapped
	p.lastValid = snapped
	p.logger.Debug("piece placed", "piece", p.id, "cell", target, "from", prev)

	if p.observer != nil {
		p.observer.OnPlacementChanged(p)
	}
	return true
}

// Lift takes the piece off the grid and returns it to its home position.
func (p *Piece) Lift() bool {
	if p.moving {
		p.logger.Warn("lift ignored during move", "piece", p.id)
		return false
	}
	p.unplace()
	return true
}

// Release frees the piece's cell. Call it when the piece is destroyed.
func (p *Piece) Release() {
	p.unplace()
}

// unplace frees the held cell, if any, and parks the piece at home.
func (p *Piece) unplace() {
	if p.cell != NoCell && p.grid != nil && p.grid.TileAt(p.cell) == p {
		p.grid.Free(p.cell)
	}
	p.cell = NoCell
	p.position = p.home
	p.lastValid = p.home
}

// Drag moves the piece visually while it is held, without touching the grid.
func (p *Piece) Drag(pos Vec2) {
	p.position = pos
}

// CancelDrag snaps the piece back to its last valid position.
func (p *Piece) CancelDrag() {
	p.position = p.lastValid
}

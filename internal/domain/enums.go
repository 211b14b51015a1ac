package domain

type EventType string

const (
	EventAssign   EventType = "assign"
	EventRemove   EventType = "remove"
	EventStart    EventType = "start"
	EventComplete EventType = "complete"
	EventModify   EventType = "modify"
)

// ValidEventTypes is the canonical set of accepted event type strings.
var ValidEventTypes = map[EventType]bool{
	EventAssign: true, EventRemove: true, EventStart: true,
	EventComplete: true, EventModify: true,
}

type NodeStatus string

const (
	NodeCreated  NodeStatus = "created"
	NodePruned   NodeStatus = "pruned"
	NodeSolution NodeStatus = "solution"
)

// ValidNodeStatuses is the canonical set of accepted search node statuses.
var ValidNodeStatuses = map[NodeStatus]bool{
	NodeCreated: true, NodePruned: true, NodeSolution: true,
}

type ViolationType string

const (
	ViolationPrecedence ViolationType = "precedence"
	ViolationResource   ViolationType = "resource"
	ViolationOverlap    ViolationType = "overlap"
)

type Severity string

const (
	SeverityError Severity = "error"
	// SeverityWarning is reserved; no rule emits it yet.
	SeverityWarning Severity = "warning"
)

type ViewMode string

const (
	ViewGantt ViewMode = "gantt"
	ViewTree  ViewMode = "tree"
	ViewBoth  ViewMode = "both"
	ViewGame  ViewMode = "game"
)

// ValidViewModes lists view modes in cycling order.
var ValidViewModes = []ViewMode{ViewGantt, ViewTree, ViewBoth, ViewGame}

type GameStatus string

const (
	GameNotStarted GameStatus = "not_started"
	GameInProgress GameStatus = "in_progress"
	GameCompleted  GameStatus = "completed"
)

// EditPolicy controls whether an edit that leaves the user schedule in
// violation is committed.
type EditPolicy string

const (
	PolicyLearning EditPolicy = "learning"
	PolicyStrict   EditPolicy = "strict"
)

type ResetMode string

const (
	ResetClear  ResetMode = "clear"
	ResetRevert ResetMode = "revert"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// DependencySource records where a problem's precedence edges came from.
type DependencySource string

const (
	DependenciesExplicit DependencySource = "explicit"
	DependenciesInferred DependencySource = "inferred"
	DependenciesNone     DependencySource = "none"
)

// Verdict summarises a schedule against the extracted optimum.
type Verdict string

const (
	VerdictInvalid    Verdict = "invalid"
	VerdictSuboptimal Verdict = "suboptimal"
	VerdictOptimal    Verdict = "optimal"
)

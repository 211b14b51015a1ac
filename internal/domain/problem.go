package domain

// Task is the static definition of one schedulable activity.
type Task struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	Duration        int      `json:"duration" yaml:"duration"`
	Dependencies    []string `json:"dependencies" yaml:"dependencies"`
	ResourceDemands []int    `json:"resourceDemands" yaml:"resourceDemands"`
}

// Demand returns the task's consumption of the resource at index, 0 if absent.
func (t *Task) Demand(index int) int {
	if index < 0 || index >= len(t.ResourceDemands) {
		return 0
	}
	return t.ResourceDemands[index]
}

// Resource is a renewable resource; Index addresses Task.ResourceDemands.
type Resource struct {
	ID       string `json:"id" yaml:"id"`
	Index    int    `json:"index" yaml:"index"`
	Capacity int    `json:"capacity" yaml:"capacity"`
}

// ProblemDefinition is the static RCPSP instance reconstructed from a log.
type ProblemDefinition struct {
	Tasks            []Task           `json:"tasks" yaml:"tasks"`
	Resources        []Resource       `json:"resources" yaml:"resources"`
	TimeHorizon      int              `json:"timeHorizon" yaml:"timeHorizon"`
	OptimalSchedule  Schedule         `json:"optimalSchedule" yaml:"optimalSchedule"`
	OptimalMakespan  int              `json:"optimalMakespan" yaml:"optimalMakespan"`
	DependencySource DependencySource `json:"dependencySource" yaml:"dependencySource"`
	CapacityStrategy string           `json:"capacityStrategy" yaml:"capacityStrategy"`
}

// Task looks up a task by id.
func (p *ProblemDefinition) Task(id string) (*Task, bool) {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return &p.Tasks[i], true
		}
	}
	return nil, false
}

// TaskName returns the display name for id, falling back to the id itself.
func (p *ProblemDefinition) TaskName(id string) string {
	if t, ok := p.Task(id); ok && t.Name != "" {
		return t.Name
	}
	return id
}

package ecs

// System advances one concern of the world by dt seconds.
type System interface {
	Update(w *World, dt float64)
}

type Scheduler struct {
	systems []System
	tick    uint64
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, sys := range systems {
		s.Add(sys)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Update runs every system once in registration order. Negative dt is
// treated as zero.
func (s *Scheduler) Update(w *World, dt float64) {
	if dt < 0 {
		dt = 0
	}
	for _, system := range s.systems {
		system.Update(w, dt)
	}
	s.tick++
}

func (s *Scheduler) Tick() uint64 {
	return s.tick
}

func (s *Scheduler) Systems() []System {
	return append([]System(nil), s.systems...)
}

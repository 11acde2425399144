package golden

// Robot drives forward one unit per tick until it has covered Target.
//
//tickfsm:machine DriveMachine
//tickfsm:state Idle initial entry=resetOdometer
//tickfsm:state Moving periodic=drive exit=brake
//tickfsm:state Done terminal entry=park
//tickfsm:transition Idle -> Moving guard=always
//tickfsm:transition Moving -> Done guard=distanceReached
type Robot struct {
	Target   int
	Distance int

	// Log records every action in call order.
	Log  []string
	// Hook, when set, runs after every recorded action.
	Hook func(action string)
}

func (r *Robot) record(action string) {
	r.Log = append(r.Log, action)
	if r.Hook != nil {
		r.Hook(action)
	}
}

func (r *Robot) resetOdometer() {
	r.Distance = 0
	r.record("resetOdometer")
}

func (r *Robot) drive() {
	r.Distance++
	r.record("drive")
}

func (r *Robot) brake() {
	r.record("brake")
}

func (r *Robot) park() {
	r.record("park")
}

func (r *Robot) distanceReached() bool {
	return r.Distance >= r.Target
}

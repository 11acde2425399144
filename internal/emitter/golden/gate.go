package golden

// Gate is a barrier that opens unless it is locked. A locked gate jams; so
// does one that gets stuck while opening.
//
//tickfsm:machine
//tickfsm:state Closed initial
//tickfsm:state Opening periodic=open
//tickfsm:state Open terminal
//tickfsm:state Jammed terminal entry=alarm
//tickfsm:transition Closed -> Opening guard=!locked
//tickfsm:transition Closed -> Jammed guard=always
//tickfsm:transition Opening -> Jammed guard=stuck priority=1
//tickfsm:transition Opening -> Open guard=opened priority=0 action=latch
type Gate interface {
	locked() bool
	stuck() bool
	opened() bool
	open()
	latch()
	alarm()
}

package taxisim

// Vehicle is one member of the fleet. Origin is the station index of the
// last leg it is executing, Destin is the final station for that leg, and
// Arrive is the integer time at which it reaches Destin. A vehicle is idle
// iff Arrive <= now and it is sitting at Destin (no leg in progress).
type Vehicle struct {
	Origin int
	Destin int
	Arrive int64
}

// IdleAt reports whether the vehicle is idle at station s as of time now:
// Arrive <= now and Destin == s.
func (v Vehicle) IdleAt(s int, now int64) bool {
	return v.Destin == s && v.Arrive <= now
}

// assign points the vehicle at a new destination, applying the trajectory
// update rule: origin <- destin, destin <- target, arrive <- max(arrive,
// now) + tripTime(origin, target). Used for empty (unoccupied) trips.
func (v *Vehicle) assign(now int64, target int, tripTime func(i, j int) int) {
	origin := v.Destin
	arrive := v.Arrive
	if now > arrive {
		arrive = now
	}
	v.Origin = origin
	v.Destin = target
	v.Arrive = arrive + int64(tripTime(origin, target))
}

// serve points the vehicle through a passenger trip, which is a two-leg
// move even though the vehicle only ends up occupied for the second leg:
// an empty repositioning leg from the vehicle's current destination to
// paxOrigin, arriving at pickup, then the occupied leg from paxOrigin to
// paxDestin. Returns pickup.
func (v *Vehicle) serve(now int64, paxOrigin, paxDestin int, tripTime func(i, j int) int) int64 {
	wait := v.Arrive
	if now > wait {
		wait = now
	}
	pickup := wait + int64(tripTime(v.Destin, paxOrigin))
	v.Origin = paxOrigin
	v.Destin = paxDestin
	v.Arrive = pickup + int64(tripTime(paxOrigin, paxDestin))
	return pickup
}

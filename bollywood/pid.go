package bollywood

// PropID is a stable identifier for a Props factory binding, typically
// the fully qualified type name of the actor it produces.
type PropID string

// PID (Process ID) is the stable identity of an actor: the pair
// (Path, PropID). Two PIDs with the same path and different PropIDs
// name distinct actors.
type PID struct {
	Path   Path
	PropID PropID
}

// String renders the PID for logs and dead-letter records.
func (pid PID) String() string {
	return pid.Path.String() + "#" + string(pid.PropID)
}

// Equal implements the equals/hashCode contract of spec.md §4.2 via
// structural comparison. PID is not comparable with == and cannot be a
// map key directly, because Path wraps a slice; maps key on pidKey()
// instead.
func (pid PID) Equal(other PID) bool {
	return pid.Path.Equal(other.Path) && pid.PropID == other.PropID
}

// pidKey returns a comparable, hashable representation of a PID for use
// as a map key (Path embeds a slice and is not itself comparable).
func pidKey(pid PID) string {
	return pid.Path.String() + "#" + string(pid.PropID)
}

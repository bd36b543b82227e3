package component

type DeviceKind string

const (
	DeviceCamera DeviceKind = "camera"
	DeviceAlarm  DeviceKind = "alarm"
)

// Device names an entity that accepts console commands.
type Device struct {
	Name string
	Kind DeviceKind
}

var DeviceComponent = NewComponent[Device]("device")

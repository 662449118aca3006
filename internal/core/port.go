package core

// Port describes a serial port found on the host.
type Port struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	IsUSB        bool   `json:"is_usb"`
	VID          string `json:"vid,omitempty"`
	PID          string `json:"pid,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`
}

// Label returns a one-line human description of the port.
func (p Port) Label() string {
	if p.Description == "" {
		return p.Name
	}
	return p.Name + " - " + p.Description
}

// Package drivers holds the transport contracts shared by the device drivers in this repository.
package drivers

// I2C represents an I2C bus. It is notably implemented by the periphi2c package on Linux hosts, and by the
// machine.I2C type on microcontrollers.
//
// Register access is the only way the drivers talk to a chip: ReadRegister writes the register address and then
// reads len(buf) bytes starting there, WriteRegister writes the register address followed by buf.
type I2C interface {
	ReadRegister(addr uint8, r uint8, buf []byte) error
	WriteRegister(addr uint8, r uint8, buf []byte) error
	Tx(addr uint16, w, r []byte) error
}

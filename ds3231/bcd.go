package ds3231

// decToBcd converts 0-99 to BCD
func decToBcd(dec uint8) uint8 {
	return dec + 6*(dec/10)
}

// bcdToDec converts BCD to 0-99. Nibbles above 9 are not checked; the chip never produces them.
func bcdToDec(bcd uint8) uint8 {
	return bcd - 6*(bcd>>4)
}

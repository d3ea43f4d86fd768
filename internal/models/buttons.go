package models

// BuildButtonMasks creates 32 uints each with only 1 bit. 1,2,4,8,16,32...
func BuildButtonMasks() []uint32 {
	buttonMasks := make([]uint32, 32)
	for i := 0; i < 32; i++ {
		buttonMasks[i] = 1 << i
	}
	return buttonMasks
}

// ParseButtons unpacks the bit-packed button field into per-button states.
func ParseButtons(bitButton uint32, masks []uint32) []bool {
	returnValue := make([]bool, len(masks))
	for i := range masks {
		returnValue[i] = (bitButton & masks[i]) != 0
	}
	return returnValue
}

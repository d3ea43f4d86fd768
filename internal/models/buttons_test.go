package models

import "testing"

func TestParseButtons(t *testing.T) {
	masks := BuildButtonMasks()

	buttons := ParseButtons(0b101, masks)
	if !buttons[0] || buttons[1] || !buttons[2] {
		t.Fatalf("expected buttons 0 and 2 pressed, got %v", buttons[:3])
	}
}

func TestParseButtonsHighBit(t *testing.T) {
	masks := BuildButtonMasks()

	buttons := ParseButtons(1<<31, masks)
	if !buttons[31] {
		t.Fatal("expected button 31 pressed")
	}
	for i := 0; i < 31; i++ {
		if buttons[i] {
			t.Fatalf("button %d should not be pressed", i)
		}
	}
}

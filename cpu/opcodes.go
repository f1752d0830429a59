package cpu

// opLengths gives the size in bytes of each opcode, including the opcode
// byte itself. Every entry defaults to 1; only the opcodes that carry an
// immediate byte or a 16-bit address operand are longer.
var opLengths = [256]byte{
	0x01: 3, 0x06: 2, 0x0e: 2,
	0x11: 3, 0x16: 2, 0x1e: 2,
	0x21: 3, 0x22: 3, 0x26: 2,
	0x2a: 3, 0x2e: 2,
	0x31: 3, 0x32: 3, 0x36: 2,
	0x3a: 3, 0x3e: 2,
	0xc2: 3, 0xc3: 3, 0xc4: 3, 0xc6: 2,
	0xca: 3, 0xcc: 3, 0xcd: 3, 0xce: 2,
	0xd2: 3, 0xd3: 2, 0xd4: 3, 0xd6: 2,
	0xda: 3, 0xdb: 2, 0xdc: 3, 0xde: 2,
	0xe2: 3, 0xe4: 3, 0xe6: 2,
	0xea: 3, 0xec: 3, 0xee: 2,
	0xf2: 3, 0xf4: 3, 0xf6: 2,
	0xfa: 3, 0xfc: 3, 0xfe: 2,
}

func init() {
	for i := range opLengths {
		if opLengths[i] == 0 {
			opLengths[i] = 1
		}
	}
}

// opCycles gives the baseline cycle count for each opcode. Conditional
// CALL and RET opcodes hold the cycle count of the taken path here; the
// untaken path is supplied via a cycle override that condCall/condRet set
// and Step applies (11 for a failed conditional call, 5 for a failed
// conditional return), matching the original firmware's cycle_override
// mechanism. The unused opcodes execute as NOP and take a NOP's 4 cycles.
var opCycles = [256]byte{
	0x00: 4,
	0x08: 4, 0x10: 4, 0x18: 4, 0x28: 4, 0x38: 4, 0xcb: 4, 0xd9: 4, 0xdd: 4, 0xed: 4, 0xfd: 4,

	0x06: 7, 0x0e: 7, 0x16: 7, 0x1e: 7, 0x26: 7, 0x2e: 7, 0x36: 10, 0x3e: 7,
	0x01: 10, 0x11: 10, 0x21: 10, 0x31: 10,

	0x04: 5, 0x0c: 5, 0x14: 5, 0x1c: 5, 0x24: 5, 0x2c: 5, 0x34: 10, 0x3c: 5,
	0x05: 5, 0x0d: 5, 0x15: 5, 0x1d: 5, 0x25: 5, 0x2d: 5, 0x35: 10, 0x3d: 5,

	0x03: 5, 0x13: 5, 0x23: 5, 0x33: 5,
	0x0b: 5, 0x1b: 5, 0x2b: 5, 0x3b: 5,
	0x09: 10, 0x19: 10, 0x29: 10, 0x39: 10,

	0xc6: 7, 0xd6: 7, 0xce: 7, 0xde: 7, 0xfe: 7, 0xe6: 7, 0xf6: 7, 0xee: 7,

	0x40: 5, 0x41: 5, 0x42: 5, 0x43: 5, 0x44: 5, 0x45: 5, 0x46: 7, 0x47: 5,
	0x48: 5, 0x49: 5, 0x4a: 5, 0x4b: 5, 0x4c: 5, 0x4d: 5, 0x4e: 7, 0x4f: 5,
	0x50: 5, 0x51: 5, 0x52: 5, 0x53: 5, 0x54: 5, 0x55: 5, 0x56: 7, 0x57: 5,
	0x58: 5, 0x59: 5, 0x5a: 5, 0x5b: 5, 0x5c: 5, 0x5d: 5, 0x5e: 7, 0x5f: 5,
	0x60: 5, 0x61: 5, 0x62: 5, 0x63: 5, 0x64: 5, 0x65: 5, 0x66: 7, 0x67: 5,
	0x68: 5, 0x69: 5, 0x6a: 5, 0x6b: 5, 0x6c: 5, 0x6d: 5, 0x6e: 7, 0x6f: 5,
	0x70: 7, 0x71: 7, 0x72: 7, 0x73: 7, 0x74: 7, 0x75: 7, 0x77: 7,
	0x78: 5, 0x79: 5, 0x7a: 5, 0x7b: 5, 0x7c: 5, 0x7d: 5, 0x7e: 7, 0x7f: 5,

	0x80: 4, 0x81: 4, 0x82: 4, 0x83: 4, 0x84: 4, 0x85: 4, 0x86: 7, 0x87: 4,
	0x90: 4, 0x91: 4, 0x92: 4, 0x93: 4, 0x94: 4, 0x95: 4, 0x96: 7, 0x97: 4,
	0x88: 4, 0x89: 4, 0x8a: 4, 0x8b: 4, 0x8c: 4, 0x8d: 4, 0x8e: 7, 0x8f: 4,
	0x98: 4, 0x99: 4, 0x9a: 4, 0x9b: 4, 0x9c: 4, 0x9d: 4, 0x9e: 7, 0x9f: 4,
	0xb8: 4, 0xb9: 4, 0xba: 4, 0xbb: 4, 0xbc: 4, 0xbd: 4, 0xbe: 7, 0xbf: 4,
	0xa0: 4, 0xa1: 4, 0xa2: 4, 0xa3: 4, 0xa4: 4, 0xa5: 4, 0xa6: 7, 0xa7: 4,
	0xb0: 4, 0xb1: 4, 0xb2: 4, 0xb3: 4, 0xb4: 4, 0xb5: 4, 0xb6: 7, 0xb7: 4,
	0xa8: 4, 0xa9: 4, 0xaa: 4, 0xab: 4, 0xac: 4, 0xad: 4, 0xae: 7, 0xaf: 4,

	0x2f: 4, 0x07: 4, 0x0f: 4, 0x17: 4, 0x1f: 4,

	0xc5: 11, 0xd5: 11, 0xe5: 11, 0xf5: 11,
	0xc1: 10, 0xd1: 10, 0xe1: 10, 0xf1: 10,

	0x32: 13, 0x3a: 13,
	0x02: 7, 0x12: 7, 0x0a: 7, 0x1a: 7,

	0xc3: 10, 0xca: 10, 0xc2: 10, 0xfa: 10, 0xf2: 10, 0xea: 10, 0xe2: 10, 0xda: 10, 0xd2: 10,

	0xcd: 17,
	0xcc: 17, 0xc4: 17, 0xfc: 17, 0xf4: 17, 0xec: 17, 0xe4: 17, 0xdc: 17, 0xd4: 17,

	0xc9: 10,
	0xc8: 11, 0xc0: 11, 0xf8: 11, 0xf0: 11, 0xe8: 11, 0xe0: 11, 0xd8: 11, 0xd0: 11,

	0xc7: 11, 0xcf: 11, 0xd7: 11, 0xdf: 11, 0xe7: 11, 0xef: 11, 0xf7: 11, 0xff: 11,

	0x22: 16, 0x2a: 16,
	0xe3: 18,
	0xeb: 4,
	0xf9: 5, 0xe9: 5,
	0x37: 4, 0x3f: 4, 0x27: 4,

	0xdb: 10, 0xd3: 10,

	0x20: 4, 0x30: 4,
	0xf3: 4, 0xfb: 4,
	0x76: 7,
}

// conditional call/ret cycle overrides, applied when the branch is not
// taken.
const (
	failedConditionalCallCycles = 11
	failedConditionalRetCycles  = 5
)

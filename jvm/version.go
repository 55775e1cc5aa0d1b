package jvm

// Interface versions reported by Env.GetVersion.
const (
	Version1_1 int32 = 0x00010001
	Version1_2 int32 = 0x00010002
	Version1_4 int32 = 0x00010004
	Version1_6 int32 = 0x00010006
	Version1_8 int32 = 0x00010008
	Version9   int32 = 0x00090000
	Version10  int32 = 0x000a0000
	Version19  int32 = 0x00130000
	Version20  int32 = 0x00140000
	Version21  int32 = 0x00150000
)

// VersionString names an interface version. Negative values report false;
// values that are not known report "unknown".
func VersionString(v int32) (string, bool) {
	if v < 0 {
		return "", false
	}
	switch v {
	case Version1_1:
		return "1.1", true
	case Version1_2:
		return "1.2", true
	case Version1_4:
		return "1.4", true
	case Version1_6:
		return "1.6", true
	case Version1_8:
		return "1.8", true
	case Version9:
		return "9", true
	case Version10:
		return "10", true
	case Version19:
		return "19", true
	case Version20:
		return "20", true
	case Version21:
		return "21", true
	}
	return "unknown", true
}

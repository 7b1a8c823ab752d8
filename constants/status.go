package constants

// SideStatus is the canonical name of a side pipeline state.
type SideStatus string

// Stable values (logged and shown to callers as-is).
const (
	SideStatusIdle        SideStatus = "IDLE"
	SideStatusAcquiring   SideStatus = "ACQUIRING"   // waiting on camera or file pick
	SideStatusAcquired    SideStatus = "ACQUIRED"    // original blob held
	SideStatusCropping    SideStatus = "CROPPING"    // waiting on the crop capability
	SideStatusCropped     SideStatus = "CROPPED"     // cropped blob held, ready to recognize
	SideStatusRecognizing SideStatus = "RECOGNIZING" // OCR in flight
	SideStatusSucceeded   SideStatus = "SUCCEEDED"   // candidate extracted
	SideStatusFailed      SideStatus = "FAILED"      // terminal failure for this attempt
)

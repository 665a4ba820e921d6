// File: /utils/catalog.go
package utils

// Fixed catalog mapping an event type to its cover image. "Other" and unknown
// types have no cover; the event is created with a nil image.
var eventImages = map[string]string{
	"Halloween":   "https://firebasestorage.googleapis.com/v0/b/programacion-ec39e.appspot.com/o/162fae60-77df-11ee-bd0d-2d70b013b479.jpg.webp?alt=media&token=657d353c-98b6-4826-94b1-3ef021510c0e",
	"Birthday":    "https://firebasestorage.googleapis.com/v0/b/programacion-ec39e.appspot.com/o/septiembre-cumpleanos-655x368.webp?alt=media&token=9374ce7f-cf85-4cda-8a9b-8d52ca80f0e1",
	"Baby shower": "https://firebasestorage.googleapis.com/v0/b/programacion-ec39e.appspot.com/o/e53d5867ba9718bd7626f70f2ff446f3.webp?alt=media&token=283fad8c-d887-421a-8e37-3c9c3044b8f5",
	"Wedding":     "https://firebasestorage.googleapis.com/v0/b/programacion-ec39e.appspot.com/o/unnamed-min.webp?alt=media&token=b4c33a4f-b720-47a8-b4f5-c5ddc028625e",
	"Christmas":   "https://firebasestorage.googleapis.com/v0/b/programacion-ec39e.appspot.com/o/S7H7HDZF2RJ7RJ3FYMDU5QFSQ4.webp?alt=media&token=9c5c1ce5-7293-4d20-a7fc-216049acbef0",
}

// EventImage resolves the cover image URL for an event type, or nil when the
// catalog has no entry for it.
func EventImage(eventType string) *string {
	url, ok := eventImages[eventType]
	if !ok {
		return nil
	}
	return &url
}

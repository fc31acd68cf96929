package service

import "fmt"

// BuildPrompt renders the generation instruction for one try-on request.
// The attribute values are interpolated verbatim; empty fields stay empty.
func BuildPrompt(modelType, gender, garmentType, style, instructions string) string {
	return fmt.Sprintf(`You are a virtual fashion stylist.

Create a realistic virtual try-on image by placing the clothing item
onto the person while preserving facial identity and garment details.

Rules:
- Keep the face EXACTLY the same
- Preserve garment color, texture, and design
- Replace the background completely
- Maintain original pose and body proportions

Context:
- Model Type: %s
- Gender: %s
- Garment Type: %s
- Style: %s
- Special Instructions: %s

Generate a professional fashion photography style image showing the virtual try-on result.`,
		modelType, gender, garmentType, style, instructions)
}

package driven

import "context"

// PageRasteriser renders every page of a PDF to an image file.
type PageRasteriser interface {
	// Rasterise writes one image per page into outDir and returns the
	// image paths in page order.
	Rasterise(ctx context.Context, pdfPath, outDir string, dpi int) ([]string, error)
}

// OCREngine recognises text in a page image.
type OCREngine interface {
	// Recognise returns the text on the image using the given page
	// segmentation mode.
	Recognise(ctx context.Context, imagePath string, pageSegMode int) (string, error)
}

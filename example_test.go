package md2docx_test

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/alnah/go-md2docx"
)

// Example demonstrates a basic conversion held in memory.
func Example() {
	conv, err := md2docx.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	result, err := conv.Convert(context.Background(), md2docx.Input{
		Markdown: "# Hello World\n\nThis is a test.",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	// A .docx file is a zip package.
	if bytes.HasPrefix(result.DOCX, []byte("PK")) {
		fmt.Println("DOCX generated")
	}
	fmt.Println("headings:", result.Headings)
	// Output:
	// DOCX generated
	// headings: 1
}

// Example_formulas demonstrates LaTeX math rendered as Office Math.
func Example_formulas() {
	conv, err := md2docx.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	result, err := conv.Convert(context.Background(), md2docx.Input{
		Markdown: "The area is $\\pi r^2$.\n\n$$\n\\sum_{i=1}^{n} i = \\frac{n(n+1)}{2}\n$$\n",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("formulas:", result.Formulas)
	fmt.Println("warnings:", len(result.Warnings))
	// Output:
	// formulas: 2
	// warnings: 0
}

// Example_withTOC demonstrates adding a table of contents field.
func Example_withTOC() {
	conv, err := md2docx.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	markdown := `# Document Title

## Chapter 1

Content for chapter 1.

## Chapter 2

### Section 2.1

Subsection content.
`

	result, err := conv.Convert(context.Background(), md2docx.Input{
		Markdown: markdown,
		TOC:      &md2docx.TOC{Title: "Contents", MaxDepth: 2},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("headings:", result.Headings)
	// Output: headings: 4
}

// ExampleNewConverter_withStyle demonstrates using a built-in preset.
func ExampleNewConverter_withStyle() {
	conv, err := md2docx.NewConverter(md2docx.WithStyle("default"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(conv.Config().Style("heading_1").NumberingFormat)
	// Output: chapter
}

// ExampleConverter_Convert_concurrent demonstrates sharing one converter
// between goroutines.
func ExampleConverter_Convert_concurrent() {
	conv, err := md2docx.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	docs := []string{"# One\n\nFirst.", "# Two\n\nSecond.", "# Three\n\nThird."}
	sizes := make([]int, len(docs))

	var wg sync.WaitGroup
	for i, md := range docs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := conv.Convert(context.Background(), md2docx.Input{Markdown: md})
			if err == nil {
				sizes[i] = len(result.DOCX)
			}
		}()
	}
	wg.Wait()

	ok := 0
	for _, n := range sizes {
		if n > 0 {
			ok++
		}
	}
	fmt.Printf("converted %d of %d\n", ok, len(docs))
	// Output: converted 3 of 3
}

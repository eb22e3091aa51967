package elements

// Utility classes shared by both body renderers so rich-text and markdown
// posts look the same
const (
	ClassParagraph       = "mb-4"
	ClassUnorderedList   = "list-disc pl-6 mb-4"
	ClassOrderedList     = "list-decimal pl-6 mb-4"
	ClassListItem        = "mb-1"
	ClassBlockquote      = "border-l-4 border-gray-300 pl-4 italic my-4"
	ClassRule            = "my-8 border-t border-gray-300"
	ClassTableWrapper    = "overflow-x-auto my-6"
	ClassTable           = "min-w-full border-collapse border border-gray-300"
	ClassTableRow        = "border-b border-gray-300"
	ClassTableCell       = "border border-gray-300 px-4 py-2"
	ClassTableHeaderCell = "border border-gray-300 px-4 py-2 bg-gray-100"
)

var headingClasses = [7]string{
	1: "text-4xl font-bold mt-8 mb-4",
	2: "text-3xl font-bold mt-8 mb-4",
	3: "text-2xl font-bold mt-6 mb-3",
	4: "text-xl font-bold mt-4 mb-2",
	5: "text-lg font-bold mt-4 mb-2",
	6: "text-base font-bold mt-4 mb-2",
}

// HeadingClass returns the classes for a heading level, or "" outside 1-6
func HeadingClass(level int) string {
	if level < 1 || level > 6 {
		return ""
	}
	return headingClasses[level]
}

package help

// HelpText contains information about a field
type HelpText struct {
	Title       string
	Description string
	Details     string
}

// Texts contains help information for the wizard fields, keyed by form key.
var Texts = map[string]HelpText{
	"pathology": {
		Title:       "PATHOLOGY",
		Description: "The finding to add to the report.",
		Details: `Type / to filter the list.
Some findings then ask for a side, a lobe or a size.
Findings without qualifiers go straight to review.`,
	},
	"side": {
		Title:       "SIDE",
		Description: "Which hemisphere the finding is on.",
		Details:     "Space toggles a value. Both sides may be selected for bilateral findings.",
	},
	"lobe": {
		Title:       "LOBE",
		Description: "Which lobes are involved.",
		Details:     "Space toggles a value. Select every lobe the finding extends into.",
	},
	"mm": {
		Title:       "SIZE",
		Description: "Size band of the finding in millimetres.",
		Details: `< 1 mm, 1-3 mm or > 3 mm.
Leaving every band unselected blocks the finding from being added.`,
	},
	"action": {
		Title:       "NEXT STEP",
		Description: "Choose what to do with the current report.",
		Details: `Add commits the pending finding.
Generate compiles the observation and impression text.
Clear all empties the report and starts over.`,
	},
	"remove": {
		Title:       "REMOVE FINDING",
		Description: "Pick the finding to delete.",
		Details:     "Entries are numbered as they were added, so duplicates can be told apart.",
	},
	"save_path": {
		Title:       "SAVE REPORT",
		Description: "Where to write the compiled report.",
		Details: `The extension picks the format:
.yaml/.yml  report document
.pdf        PDF
.dcm        DICOM structured report
anything else  plain text`,
	},
}

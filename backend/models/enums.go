package models

// Closed vocabularies for line, outing and issue fields. Each value has a
// stored form (the string written to the database) and a display label used
// in CSV output and report rendering.

type LineType string

const (
	LineTransect  LineType = "Transect"
	LineMouseLine LineType = "MouseLine"
)

var lineTypeLabels = map[LineType]string{
	LineTransect:  "Transect",
	LineMouseLine: "Mouse-Line",
}

func (t LineType) Label() string {
	if l, ok := lineTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

func (t LineType) Valid() bool {
	_, ok := lineTypeLabels[t]
	return ok
}

type CompletionStatus string

const (
	StatusCompleted CompletionStatus = "Completed"
	StatusPartial   CompletionStatus = "Partial"
)

var completionStatusLabels = map[CompletionStatus]string{
	StatusCompleted: "Completed",
	StatusPartial:   "Partially Worked On",
}

func (s CompletionStatus) Label() string {
	if l, ok := completionStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s CompletionStatus) Valid() bool {
	_, ok := completionStatusLabels[s]
	return ok
}

type StationType string

const (
	StationNovacoil      StationType = "Novacoil"
	StationNovacoilBoxed StationType = "NovacoilBoxed"
	StationWoodenBox     StationType = "WoodenBox"
	StationWeirdBox      StationType = "WeirdBox"
	StationNA            StationType = "NA"
)

var stationTypeLabels = map[StationType]string{
	StationNovacoil:      "Novacoil",
	StationNovacoilBoxed: "Novacoil-Boxed",
	StationWoodenBox:     "Wooden-Box",
	StationWeirdBox:      "Weird-Box",
	StationNA:            "N/A",
}

func (t StationType) Label() string {
	if l, ok := stationTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

func (t StationType) Valid() bool {
	_, ok := stationTypeLabels[t]
	return ok
}

type IssueType string

const (
	IssueComplicated       IssueType = "Complicated"
	IssueMissingStation    IssueType = "MissingStation"
	IssueMissingHoop       IssueType = "MissingHoop"
	IssueMissingLid        IssueType = "MissingLid"
	IssueMissingMesh       IssueType = "MissingMesh"
	IssueNeedsNewICC       IssueType = "Needs_New_ICC"
	IssueNeedsReplacing    IssueType = "NeedsReplacing"
	IssueSlightlyRotten    IssueType = "SlightlyRotten"
	IssueVeryRotten        IssueType = "VeryRotten"
	IssueRustingHoop       IssueType = "RustingHoop"
	IssueNeedsClearing     IssueType = "NeedsClearing"
	IssueNeedsRope         IssueType = "NeedsRope"
	IssueNeedsFrequentAttn IssueType = "NeedsFrequentAttn"
	IssueRopeOnDeadTree    IssueType = "RopeOnDeadTree"
	IssueRequiresChainsaw  IssueType = "RequiresChainsaw"
	IssueSafety            IssueType = "Safety"
	IssueFlora             IssueType = "Flora"
	IssueFauna             IssueType = "Fauna"
	IssueWeed              IssueType = "Weed"
	IssueNote              IssueType = "Note"
)

// issueTypeOrder preserves declaration order for label matching in the
// outing importer (first label contained in a note wins).
var issueTypeOrder = []IssueType{
	IssueComplicated, IssueMissingStation, IssueMissingHoop, IssueMissingLid,
	IssueMissingMesh, IssueNeedsNewICC, IssueNeedsReplacing, IssueSlightlyRotten,
	IssueVeryRotten, IssueRustingHoop, IssueNeedsClearing, IssueNeedsRope,
	IssueNeedsFrequentAttn, IssueRopeOnDeadTree, IssueRequiresChainsaw,
	IssueSafety, IssueFlora, IssueFauna, IssueWeed, IssueNote,
}

var issueTypeLabels = map[IssueType]string{
	IssueComplicated:       "Complicated",
	IssueMissingStation:    "Missing Station",
	IssueMissingHoop:       "Missing Hoop",
	IssueMissingLid:        "Missing Lid",
	IssueMissingMesh:       "Missing Mesh",
	IssueNeedsNewICC:       "Needs new ICC",
	IssueNeedsReplacing:    "Needs Replacing",
	IssueSlightlyRotten:    "Slightly Rotten",
	IssueVeryRotten:        "Very Rotten",
	IssueRustingHoop:       "Rusting Hoop",
	IssueNeedsClearing:     "Needs Clearing",
	IssueNeedsRope:         "Needs Rope",
	IssueNeedsFrequentAttn: "Needs Frequent Attention",
	IssueRopeOnDeadTree:    "Rope On Dead Tree",
	IssueRequiresChainsaw:  "Requires Chainsaw",
	IssueSafety:            "Safety",
	IssueFlora:             "Flora",
	IssueFauna:             "Fauna",
	IssueWeed:              "Weed",
	IssueNote:              "Note",
}

// IssueTypes returns all issue types in declaration order.
func IssueTypes() []IssueType {
	return issueTypeOrder
}

func (t IssueType) Label() string {
	if l, ok := issueTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

func (t IssueType) Valid() bool {
	_, ok := issueTypeLabels[t]
	return ok
}

type IssueStatus string

const (
	IssueFixed          IssueStatus = "Fixed"
	IssueNeedsWork      IssueStatus = "NeedsWork"
	IssueProgressing    IssueStatus = "Progressing"
	IssueNeedsRepeating IssueStatus = "NeedsRepeating"
	IssueNoActionReq    IssueStatus = "NoActionReq"
)

var issueStatusLabels = map[IssueStatus]string{
	IssueFixed:          "Fixed",
	IssueNeedsWork:      "Needs Work",
	IssueProgressing:    "Progressing",
	IssueNeedsRepeating: "Needs Repeating",
	IssueNoActionReq:    "No action req.",
}

func (s IssueStatus) Label() string {
	if l, ok := issueStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s IssueStatus) Valid() bool {
	_, ok := issueStatusLabels[s]
	return ok
}

// Resolved reports whether an issue with this status needs no further work.
func (s IssueStatus) Resolved() bool {
	return s == IssueFixed || s == IssueNoActionReq
}

type AuditAction string

const (
	AuditLogin       AuditAction = "Login"
	AuditLogout      AuditAction = "Logout"
	AuditLoginFailed AuditAction = "LoginFailed"
)

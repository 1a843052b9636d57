package filter

// Lexical class tags the reference filters look for on lexicon entries.
const (
	TagCoordinator         = "coordinator"
	TagAnd                 = "and"
	TagSubordinating       = "standard-subordinating-conjunction"
	TagClause2Only         = "clause2-only"
	TagCopula              = "copula"
	TagAuxiliary           = "auxiliary"
	TagAuxiliaryOnly       = "auxiliary-only"
	TagInvertible          = "invertible"
	TagSubjectPronoun      = "subject-pronoun"
	TagNPPronoun           = "noun-phrase-pronoun"
	TagVPPronoun           = "verb-phrase-pronoun"
	TagDisjunctivePronoun  = "disjunctive-pronoun"
	TagNominalRelPronoun   = "nominal-relative-pronoun"
	TagNominalRelSubj      = "nominal-rel-pronoun-subj"
	TagNominalRelObj       = "nominal-rel-pronoun-obj"
	TagNominalRelIobj      = "nominal-rel-pronoun-iobj"
	TagRelSubj             = "rel-pronoun-subj"
	TagRelObj              = "rel-pronoun-obj"
	TagRelIobjPrep         = "rel-pronoun-iobj-preposition-built-in"
	TagInterrogativePron   = "interrogative-pronoun"
	TagObjInterrogative    = "object-interrogative-pronoun"
	TagInterrogativeDet    = "interrogative-determiner"
	TagInterrogativeAdverb = "interrogative-adverb"
	TagGenitive            = "genitive-element"
	TagProper              = "proper"
	TagClitic              = "clitic"
	TagPrepOf              = "prep-of"
	TagPrepTo              = "prep-to"
	TagPrepAt              = "prep-at"
	TagPrepFor             = "prep-grammatical-for"
	TagPrepToward          = "prep-toward"
	TagSuperlative         = "superlative"

	TagCaseSubj = "case-subj"
	TagCaseObj  = "case-obj"
	TagCaseIobj = "case-iobj"

	// Per-word opt-outs of individual filters.
	TagNoBE_E = "no-be-e"
	TagNoBW_W = "no-bw-w"
	TagNoWB_W = "no-wb-w"
	TagNoBZ_Z = "no-bz-z"
	TagNoZB_Z = "no-zb-z"
)

// Moods.
const (
	MoodImperative = "imperative"
)

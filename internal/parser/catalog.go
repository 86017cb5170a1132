package parser

// Static phrase and title catalogues used by the classifier and field
// extractors. Kept as data tables so they can be tested independently of
// the control flow that walks them.

// rejectionIndicators mark an email as a rejection. These are checked
// before any confirmation logic: rejection emails frequently contain the
// word "application" and would otherwise look like confirmations.
var rejectionIndicators = []string{
	"won't be moving forward",
	"will not be moving forward",
	"not be moving forward",
	"not moving forward",
	"decided not to proceed",
	"decided to move forward with other candidates",
	"moving forward with other candidates",
	"pursuing other candidates",
	"not be pursuing your",
	"unfortunately we have decided",
	"unfortunately, we have decided",
	"regret to inform",
	"not selected",
	"were not selected",
	"was not selected",
	"have not been selected",
	"has not been selected",
	"position has been filled",
	"role has been filled",
	"no longer considering",
	"will not be proceeding",
	"unable to offer you",
	"not able to offer you",
	"cannot offer you",
	"decided to pursue other",
	"chosen to pursue other",
	"after careful consideration",
	"not the right fit",
	"not a good fit",
	"wish you the best",
	"wish you every success",
	"good luck in your",
	"best of luck in your",
}

// incompleteIndicators mark started-but-not-submitted application notices.
var incompleteIndicators = []string{
	"incomplete",
	"not complete",
	"not yet complete",
	"finish your application",
	"complete your application",
	"resume your application",
	"continue your application",
	"started your application",
	"starting your application",
	"thanks for starting",
	"thank you for starting",
	"begin your application",
	"began your application",
	"application in progress",
	"application is pending",
	"draft application",
	"saved application",
	"unfinished application",
}

// techJobTitles is the catalogue of known technical job titles, matched
// verbatim (case-insensitive, word-bounded) against body and subject.
var techJobTitles = []string{
	// Engineering
	"Software Engineer",
	"Software Developer",
	"Frontend Engineer",
	"Frontend Developer",
	"Backend Engineer",
	"Backend Developer",
	"Full Stack Engineer",
	"Full Stack Developer",
	"Mobile Engineer",
	"Mobile Developer",
	"iOS Developer",
	"iOS Engineer",
	"Android Developer",
	"Android Engineer",
	"DevOps Engineer",
	"Site Reliability Engineer",
	"SRE",
	"Platform Engineer",
	"Infrastructure Engineer",
	"Cloud Engineer",
	"Systems Engineer",
	"Embedded Engineer",
	"Firmware Engineer",
	"Security Engineer",
	"Machine Learning Engineer",
	"ML Engineer",
	"AI Engineer",
	"Data Engineer",
	"QA Engineer",
	"Test Engineer",
	"SDET",
	"Solutions Engineer",
	"Sales Engineer",
	"Support Engineer",
	"Application Engineer",
	"Research Engineer",
	"Robotics Engineer",
	"Hardware Engineer",
	"Network Engineer",
	// Science & analysis
	"Data Scientist",
	"Research Scientist",
	"Applied Scientist",
	"Machine Learning Scientist",
	"Data Analyst",
	"Business Analyst",
	"Product Analyst",
	"Quantitative Analyst",
	"Business Intelligence Analyst",
	// Product & design
	"Product Manager",
	"Technical Product Manager",
	"Product Designer",
	"UX Designer",
	"UI Designer",
	"UX Researcher",
	"Graphic Designer",
	// Management
	"Engineering Manager",
	"Technical Program Manager",
	"Program Manager",
	"Project Manager",
	"Scrum Master",
	"Tech Lead",
	"Team Lead",
	"Director of Engineering",
	"VP of Engineering",
	"CTO",
	// Other
	"Technical Writer",
	"Developer Advocate",
	"Developer Relations",
	"IT Specialist",
	"System Administrator",
	"Database Administrator",
	"DBA",
	"Consultant",
	"Architect",
	"Solutions Architect",
	"Software Architect",
	"Enterprise Architect",
}

// jobLevels are seniority modifiers that can appear next to a title.
var jobLevels = []string{
	"Intern",
	"Internship",
	"Co-op",
	"Coop",
	"Junior",
	"Associate",
	"Entry Level",
	"Mid-Level",
	"Senior",
	"Staff",
	"Principal",
	"Lead",
	"Manager",
	"Director",
	"VP",
	"Head of",
	"Chief",
	"I",
	"II",
	"III",
	"IV",
	"V",
	"1",
	"2",
	"3",
	"4",
	"5",
}

// specializations are team/domain modifiers that can appear next to a title.
var specializations = []string{
	"Frontend",
	"Backend",
	"Full Stack",
	"Fullstack",
	"Mobile",
	"iOS",
	"Android",
	"Web",
	"Cloud",
	"Infrastructure",
	"Platform",
	"Data",
	"ML",
	"AI",
	"Machine Learning",
	"Deep Learning",
	"NLP",
	"Computer Vision",
	"Security",
	"DevOps",
	"SRE",
	"QA",
	"Test",
	"Automation",
	"Embedded",
	"Firmware",
	"Robotics",
	"Game",
	"Graphics",
	"Systems",
	"Distributed Systems",
	"Database",
	"Analytics",
	"Growth",
	"Payments",
	"Fintech",
}

// genericCompanyWords are capture-group values from the body patterns that
// are stray sentence words rather than company names.
var genericCompanyWords = map[string]bool{
	"the":  true,
	"our":  true,
	"a":    true,
	"an":   true,
	"this": true,
	"your": true,
}

// genericSenderNames are display names that identify a mailbox role, not a
// company.
var genericSenderNames = map[string]bool{
	"jobs":          true,
	"careers":       true,
	"recruiting":    true,
	"hr":            true,
	"talent":        true,
	"no-reply":      true,
	"noreply":       true,
	"notifications": true,
}

// genericDomainLabels are infrastructure subdomain labels that carry no
// company information.
var genericDomainLabels = map[string]bool{
	"mail":          true,
	"email":         true,
	"jobs":          true,
	"careers":       true,
	"notifications": true,
	"noreply":       true,
	"no-reply":      true,
	"talent":        true,
}

package llm

import "fmt"

// AnalysisPrompt composes the evaluator prompt from retrieved resume context
// and the job description.
func AnalysisPrompt(context, jobDescription string) string {
	return fmt.Sprintf(
		"You are an ATS resume evaluator. Using the context and job description, provide concise analysis.\n\nContext:\n%s\n\nJob Description:\n%s\n",
		context, jobDescription,
	)
}

// KeywordPrompt asks for a strict-JSON keyword classification of a job
// description.
func KeywordPrompt(jobDescription string) string {
	return fmt.Sprintf(
		"Extract ATS-relevant keywords from the Job Description. "+
			"Group into skills (technical), tools/frameworks, and soft_skills. "+
			"Return ONLY strict JSON: {\"skills\":[], \"tools\":[], \"soft_skills\":[]}.\n\nJob Description:\n%s\n",
		jobDescription,
	)
}

// RewritePrompt instructs the model to produce an ATS-optimized rewrite
// without inventing experience.
func RewritePrompt(resumeText, jobDescription string) string {
	return fmt.Sprintf(
		"You are an expert resume writer. Rewrite the resume content to be ATS-optimized for the given Job Description. "+
			"Do NOT invent any new experience or skills. Use bullet points and metrics when possible. "+
			"Return JSON: {\"summary\": \"...\", \"experience\": [...], \"skills\": [...]}.\n\nJOB DESCRIPTION:\n%s\n\nRESUME:\n%s\n",
		jobDescription, resumeText,
	)
}

package compose

import (
	"fmt"
	"strings"
)

// The three stage prompts mirror a small newsroom: a researcher picks the
// story, an analyst extracts the professional angle, a strategist writes the
// post. Each stage's output format is marker-delimited so the next stage and
// the publisher can parse it mechanically.

const researcherSystemPrompt = `You are an expert tech journalist who can identify the most significant
and viral tech story that professionals need to know about. You work only from
the search results and article content provided to you.`

const researcherPromptTemplate = `Find today's most viral and impactful tech news story about %s.

1. From the research material below, identify the SINGLE most significant tech story that:
   - Is groundbreaking or industry-changing
   - Has major implications for professionals
   - Is highly discussable and engaging
   - Is from a credible source
   - Is very recent (within last 24 hours)

2. Format the story exactly as follows:

---STORY START---
Title: [Story Title]
Source: [Source Name]
URL: [URL]
Date: [Publication Date]

Summary:
[2-3 paragraphs summarizing the key points]

Key Statistics:
• [Stat 1]
• [Stat 2]
• [Stat 3]

Industry Impact:
[2-3 paragraphs on implications]
---STORY END---

Research material:
%s`

const analyzerSystemPrompt = `You are a leading tech industry analyst who excels at identifying
business implications and future trends. You provide strategic insights that
professionals need to know.`

const analyzerPromptTemplate = `Analyze the news story below for professional insights.

Format your analysis exactly as follows:

---ANALYSIS START---
Business Impact:
• Short-term: [Immediate effects]
• Long-term: [Future implications]
• Market opportunities: [List 2-3]
• Potential risks: [List 2-3]

Stakeholder Analysis:
• Winners: [Who benefits and why]
• Challenges: [Who faces disruption]
• Action items: [What professionals should do]

Strategic Insights:
• Industry trends: [Key trends]
• Career implications: [Impact on jobs/skills]
• Recommendations: [Strategic advice]
---ANALYSIS END---

The story:

%s`

const creatorSystemPrompt = `You are an expert at creating viral LinkedIn content with high engagement.
You know exactly how to structure posts, use emojis strategically, and craft hooks
that capture attention. Your posts always provide value and generate discussion.`

const creatorPromptTemplate = `Create one viral LinkedIn post that will drive maximum engagement.

Your output MUST start with '---POST START---' and end with '---POST END---' exactly.

Create a post with this structure:

---POST START---
🔥 [Attention-Grabbing Headline] 🚀 💡

[Compelling 2-3 line hook that creates curiosity]

Breaking News: [One-line news summary]

Why This Matters:
• [Key Point 1]
• [Key Point 2]
• [Key Point 3]

Industry Impact:
[2-3 lines on implications for professionals]

My Take:
[Unique perspective + controversial/debatable point]

The Big Question:
[Thought-provoking question that encourages comments]

Call to Action:
[Clear ask for engagement/discussion]

#AI #Technology #Innovation #FutureOfWork #TechNews
---POST END---

Requirements:
- Must include the exact markers as shown above
- Exactly 3 emojis in headline
- 1300-1700 characters
- Must include all sections
- Must be highly engaging
- Must encourage discussion

The story:

%s

The analysis:

%s`

func researcherPrompt(topic, material string) string {
	if strings.TrimSpace(material) == "" {
		material = "No search results available. Draw on widely reported recent tech news."
	}
	return fmt.Sprintf(researcherPromptTemplate, topic, material)
}

func analyzerPrompt(story string) string {
	return fmt.Sprintf(analyzerPromptTemplate, story)
}

func creatorPrompt(story, analysis string) string {
	return fmt.Sprintf(creatorPromptTemplate, story, analysis)
}

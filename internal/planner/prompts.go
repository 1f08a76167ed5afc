package planner

// Narration prompt templates. The generated text is appended to the
// reasoning log only; no stage logic ever consults it.

const systemPrompt = `You are SaturdayPlanner, an autonomous agent that helps people plan perfect Saturday activities.
Your goal: create the best possible Saturday plan by considering weather, user preferences, and available activities.
Explain your reasoning for the step below clearly and briefly.`

const weatherCheckPrompt = `Step 1: Weather Check
Checked the weather for zip code %s. Result: %s.
Explain what these conditions mean for Saturday activity planning.`

const categoryDecisionPrompt = `Step 2: Category Decision
Based on the weather (%s), the chosen activity categories are: %s.
Explain why these categories make sense for these conditions.`

const activitySearchPrompt = `Step 3: Activity Search
Searched for %s activities near %s within %d miles, max price level %d. Found %d total candidates.
Summarize the search outcome.`

const weatherFilterPrompt = `Step 4: Weather Filtering
Original candidates: %d. Weather conditions: %s. Filtered results: %d activities remain.
Explain the filtering outcome.`

const rankingPrompt = `Step 5: Ranking Activities
Ranked %d activities (rating 40%%, user history 40%%, weather appropriateness 20%%).
User's past preferences: %s.
Top ranked:
%s
Explain the ranking briefly.`

const finalSelectionPrompt = `Step 6: Final Selection
After considering all factors, the selection is: %s (score %.2f, rating %.1f, category %s).
Explain why this choice balances weather, preferences, and quality.`

package judge

// answerPrompt grades one answer on four criteria. Verbs: question, expected
// answer, agent output.
const answerPrompt = `Question: %s
Context/Source: cbioportal database
Expected Answer: %s
LLM Output: %s

Instructions:
Evaluate the LLM Output based on the following criteria. Provide a score from 1 to 3 for each criterion and a brief explanation.

- **Correctness (1-3)**: Is the information in the LLM Output factually accurate? Score 3 for perfectly accurate, 2 for partially accurate, 1 for completely incorrect.
- **Completeness (1-3)**: Does the LLM Output fully address the user's question? Score 3 for a complete answer, 2 for a partially complete answer, 1 for a missing answer.
- **Conciseness (1-3)**: Is the LLM Output direct and to the point, avoiding unnecessary details? Score 3 for perfectly concise, 2 for somewhat verbose, 1 for excessively verbose. Ignore the included SQL queries and timestamps when evaluating conciseness.
- **Faithfulness (1-3)**: Does the LLM Output rely only on the provided Context/Source? Score 3 if all information is traceable to the source, 2 for some reliance on external information, 1 if it contains hallucinations or outside knowledge.

Provide your final output in a structured format, as a JSON object with the following keys:
- "question": The original question.
- "correctness_score": The score for correctness.
- "correctness_explanation": The explanation for the correctness score.
- "completeness_score": The score for completeness.
- "completeness_explanation": The explanation for the completeness score.
- "conciseness_score": The score for conciseness.
- "conciseness_explanation": The explanation for the conciseness score.
- "faithfulness_score": The score for faithfulness.
- "faithfulness_explanation": The explanation for the faithfulness score.

Example Output (JSON):
` + "```json" + `
{
"question": "What is the mutational frequency of BRAF in breast cancer?",
"correctness_score": 3,
"correctness_explanation": "The output correctly states the mutational frequency as 5.2%%.",
"completeness_score": 3,
"completeness_explanation": "The answer fully addresses the question by providing the frequency and the cancer type.",
"conciseness_score": 2,
"conciseness_explanation": "The output is mostly concise but includes a minor, unnecessary detail about a related gene.",
"faithfulness_score": 3,
"faithfulness_explanation": "The answer is based solely on the provided context, with no external information."
}
` + "```"

// consistencyPrompt compares two answers to the same question. Verbs:
// question, answer A, answer B.
const consistencyPrompt = `Question: %s
Answer A: %s
Answer B: %s

Instructions:
Determine whether Answer A and Answer B convey the same information in response to the Question. Judge semantic equivalence, not wording: equal numbers, equal entities, and equal conclusions expressed differently still count as consistent. Ignore formatting, SQL queries, and timestamps.

Provide a score from 1 to 3:
- Score 3 when the answers are semantically equivalent.
- Score 2 when the answers partially agree but differ in some facts or conclusions.
- Score 1 when the answers contradict each other or report different results.

Provide your final output as a JSON object with the following keys:
- "consistency_score": The score.
- "consistency_explanation": A brief explanation of the score.

Example Output (JSON):
` + "```json" + `
{
"consistency_score": 3,
"consistency_explanation": "Both answers report 392 studies, phrased differently."
}
` + "```"

// stepsPrompt checks the SQL queries in an answer against expected reasoning
// steps. Verbs: question, expected steps, agent output.
const stepsPrompt = `Question: %s
Context/Source: cbioportal database
Expected Steps: %s
LLM Output: %s

Instructions:
Evaluate the series of SQL queries in the LLM Output against the Expected Steps. Any steps that require calculations or transformations should be reflected in the SQL queries, otherwise they should be marked as missing.
Provide a JSON response with the following fields:
{
    "missing_steps": [list of missing steps and corresponding step number, if any (each missing step should be listed individually)],
    "extra_steps": [list of extra steps and corresponding query number, if any (each extra step should be listed individually)],
    "steps_to_queries_mapping": {"step_number": "corresponding_query_number", ...},
    "completeness": Provide a score of 1 to 3. Score 3 when all expected steps are present, 2 when few steps are missing, and 1 when many steps are missing.
    "conciseness": Provide a score of 1 to 3. Score 3 when all queries correspond directly to expected steps, 2 when there are a few extra queries, and 1 when there are many extra queries.
    "correctness": Provide a score of 1 to 3. Score 3 when the overall logic of the queries is consistent with the expected results, 2 when there are some logical errors, and 1 when there are significant logical errors.
    "comments": "Brief explanation of the evaluation"
}
Ensure the JSON is properly formatted and enclosed within triple backticks, as shown in this example output (JSON):
` + "```json" + `
{
    "missing_steps": ["Step 2: Filter by cancer type", "Step 4: Calculate average mutation frequency"],
    "extra_steps": ["Query 3: Unnecessary join with patients table"],
    "steps_to_queries_mapping": {"1": "1", "3": "2,5"},
    "completeness": 2,
    "conciseness": 2,
    "correctness": 3,
    "comments": "The queries follow the expected steps but miss the cancer type filter and include an unnecessary join."
}
` + "```"

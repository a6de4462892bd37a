package gemini

// Prompt templates for the oracle domains. Because the model returns free
// text, the prompt is the only place the output schema is enforced: each
// template spells out the exact JSON shape field by field and closes every
// categorical output over an explicit value list.

const DiseaseDiagnosisPromptTemplate = `You are an expert agricultural pathologist analyzing a crop photo from a smallholder farm.

## INPUT
Crop type: %s
Location: %s
Photo: attached image

## TASK
Identify the most likely disease (or confirm the plant is healthy) and produce actionable guidance a farmer can follow today.

## OUTPUT RULES
1. Output ONLY a valid JSON object matching the schema below - no markdown, no explanations, no preamble
2. Your response must start with { and end with }
3. severity must be one of: low, medium, high, critical
4. spread_risk must be one of: low, medium, high
5. confidence and affected_area_percent are numbers between 0 and 100

## OUTPUT SCHEMA
{
  "disease_name": "<common name, or 'Healthy' if no disease is visible>",
  "scientific_name": "<latin name of the pathogen, or empty string>",
  "confidence": <0-100>,
  "severity": "<low|medium|high|critical>",
  "affected_area_percent": <0-100>,
  "symptoms": ["<visible symptom>"],
  "immediate_actions": ["<action the farmer should take today>"],
  "preventive_measures": ["<measure to avoid recurrence>"],
  "recommended_products": ["<treatment product available in East Africa>"],
  "recovery_timeline": "<expected recovery window, e.g. '2-3 weeks with treatment'>",
  "spread_risk": "<low|medium|high>"
}`

const YieldPredictionPromptTemplate = `You are an agronomic yield forecasting engine for smallholder farms in Sub-Saharan Africa.

## FARM PARAMETERS
Crop type: %s
Farm size (hectares): %.2f
Planting date: %s
Soil type: %s
Irrigation: %s
Location: %s

## TASK
Predict the harvest yield and the market outlook for this farm.

## OUTPUT RULES
1. Output ONLY a valid JSON object matching the schema below - no markdown, no explanations, no preamble
2. Your response must start with { and end with }
3. marketTrend must be one of: rising, steady, falling
4. confidenceScore is a number between 0 and 100

## OUTPUT SCHEMA
{
  "predictedYieldKgPerHa": <number>,
  "confidenceScore": <0-100>,
  "marketTrend": "<rising|steady|falling>",
  "harvestWindow": "<expected harvest period, e.g. 'late July to mid August'>",
  "riskFactors": ["<factor that could reduce the yield>"],
  "recommendations": ["<practice to improve the yield>"]
}`

const QuestionTriagePromptTemplate = `You are an agricultural extension officer triaging questions from smallholder farmers.

## QUESTION
%s

## FARM CONTEXT
%s

## TASK
Classify the question, judge its urgency, and give practical first advice.

## OUTPUT RULES
1. Output ONLY a valid JSON object matching the schema below - no markdown, no explanations, no preamble
2. Your response must start with { and end with }
3. category must be one of: crop_management, disease_pest, soil_fertility, irrigation, weather_climate, market_price, livestock, general
4. urgency must be one of: low, medium, high
5. confidence is a number between 0 and 100

## OUTPUT SCHEMA
{
  "category": "<one of the eight categories above>",
  "urgency": "<low|medium|high>",
  "confidence": <0-100>,
  "summary": "<one sentence restating the farmer's problem>",
  "advice": ["<practical step the farmer can take>"],
  "follow_up_questions": ["<question an expert would ask next>"]
}`
